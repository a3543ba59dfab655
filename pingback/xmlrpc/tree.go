package xmlrpc

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

var (
	ErrEmptyDocument = errors.New("document has no root element")
	ErrMultipleRoots = errors.New("document has more than one root element")
	ErrStrayText     = errors.New("document has text outside the root element")
)

/* Node is a generic XML element
 * Decode builds the tree without knowing anything about XML-RPC, callers
 * walk it to pull out method names and params
 */
type Node struct {
	Name     string
	Attrs    []xml.Attr
	Text     string
	Children []*Node
}

// Child returns the first child element called name, nil when absent or when n is nil
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns every child element called name, in document order
func (n *Node) ChildrenNamed(name string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// TrimmedText returns the node text without surrounding whitespace
func (n *Node) TrimmedText() string {
	if n == nil {
		return ""
	}
	return strings.TrimSpace(n.Text)
}

// Decode parses a well-formed XML document into a tree
func Decode(data []byte) (*Node, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel

	var (
		root  *Node
		stack []*Node
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Name: t.Name.Local, Attrs: t.Copy().Attr}
			if len(stack) == 0 {
				if root != nil {
					return nil, ErrMultipleRoots
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 0 {
				if len(bytes.TrimSpace(t)) > 0 {
					return nil, ErrStrayText
				}
				continue
			}
			stack[len(stack)-1].Text += string(t)
		}
	}

	if root == nil {
		return nil, ErrEmptyDocument
	}
	return root, nil
}
