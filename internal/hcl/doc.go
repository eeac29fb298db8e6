// Package hcl provides the native HCL implementation of the config.Loader
// interface. It is responsible for file parsing and for translating HCL
// blocks into the raw config.Document, which the config package then
// canonicalizes like any other schema format.
package hcl
