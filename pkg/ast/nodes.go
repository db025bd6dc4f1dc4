// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package ast

import (
	"carvel.dev/liquid/pkg/filepos"
)

type Node interface {
	Position() filepos.Position
}

var _ = []Node{&Text{}, &Output{}, &Block{}}

// Root is a parsed template.
type Root struct {
	Name   string
	Source string
	Nodes  []Node
}

type Text struct {
	Pos     filepos.Position
	Content string
}

type Output struct {
	Pos    filepos.Position
	Expr   Expr
	Markup string
}

// Block is a tag occurrence. Tags that are not blocks have no Body or
// Branches.
type Block struct {
	Pos    filepos.Position
	Name   string
	Markup string
	// Args holds whatever the tag's argument parser produced.
	Args interface{}

	Body []Node
	// Branches are the intermediate markers (e.g. else) in source order,
	// each owning the nodes up to the next marker or the end tag.
	Branches []*Branch
	EndPos   filepos.Position
}

type Branch struct {
	Pos    filepos.Position
	Marker string
	Markup string
	Args   interface{}
	Body   []Node
}

func (n *Text) Position() filepos.Position   { return n.Pos }
func (n *Output) Position() filepos.Position { return n.Pos }
func (n *Block) Position() filepos.Position  { return n.Pos }
