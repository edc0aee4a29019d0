// Package fmtt holds small diagnostic printing helpers for CLI use.
package fmtt

import (
	"errors"
	"fmt"

	"github.com/davecgh/go-spew/spew"
)

// PrintErrChain walks an error chain and prints each layer with its
// concrete type, so wrapped transport/remote errors are visible at a
// glance.
func PrintErrChain(err error) {
	if err == nil {
		fmt.Println("<nil>")
		return
	}
	for i, e := 0, err; e != nil; i, e = i+1, errors.Unwrap(e) {
		fmt.Printf("[%d] %T: %v\n", i, e, e)
	}
}

// DumpErrChain prints the chain with a full spew dump of every layer.
// Verbose; meant for -debug runs only.
func DumpErrChain(err error) {
	for i, e := 0, err; e != nil; i, e = i+1, errors.Unwrap(e) {
		fmt.Printf("[%d] %T\n", i, e)
		spew.Dump(e)
	}
}
