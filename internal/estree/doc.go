// Package estree converts between ESTree JSON and ast.Tree.
//
// Only the node types that the lowering pass understands are accepted.
// Positions are read from `start`/`end` (or `range`) and `loc.start`;
// leading comments from `leadingComments` or recast-style `comments`.
package estree
