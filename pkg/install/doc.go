// Package install builds a jamovi module's R package: it installs missing
// dependencies declared in DESCRIPTION, runs R CMD INSTALL on a copy of the
// sources with the analysis exports appended to NAMESPACE, and copies the
// resulting library into the module directory.
package install
