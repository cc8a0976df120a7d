// Package modifiers implements the declarative layer of the graph
// compiler: decorators applied to plain function declarations that replace
// a stub's behavior with a delegate (Does), synthesize a node from a
// config-driven transform (DynamicTransform, Model), or expand a
// function's first input into a chain of conditionally included transform
// nodes (Pipe, fed by Apply).
//
// Every modifier is validated against its stub before any node is
// produced, and every synthesis either returns a complete node set or
// fails with an *InvalidDecoratorError; partial results are never exposed.
package modifiers
