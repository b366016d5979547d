// Package pageobject models declarative page definitions and resolves named
// element and section references to concrete selectors.
//
// # Tree
//
// A Page owns every node of its definition tree. Sections and elements are
// added through the Page and identified by NodeID; a node refers to its
// parent by NodeID rather than by pointer, so resolved targets can be copied
// freely without aliasing the tree.
//
// Elements and sections live in separate namespaces. A name is unique within
// its immediate parent's namespace.
//
// # References
//
// Commands receive a Ref to address a node by name. The textual form used by
// scripts is "@name" or, for templated selectors, "@name<arg1,arg2>":
//
//	ref, ok := pageobject.ParseRef("@row<3,name>")
//	target, err := page.Resolve(pageobject.RootID, ref)
//
// # Ancestor chains
//
// Chain walks from a resolved target up through every enclosing section that
// has a selector. The page root has none, so a direct child of the page
// yields a chain of length one.
package pageobject
