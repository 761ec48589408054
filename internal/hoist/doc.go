// Package hoist moves function-scoped declarations of a function body into a
// single var statement. Declarations become assignments at their original
// position; function declarations become assignments at the start of their
// block. Nested functions are not entered because they own their var scope.
package hoist
