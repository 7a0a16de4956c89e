// Package scaffold creates new analysis definition pairs, prompting for the
// details through a swappable PromptDriver.
package scaffold
