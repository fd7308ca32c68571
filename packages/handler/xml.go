package handler

import "encoding/xml"

// XMLNode is a generic XML element tree.
type XMLNode struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Content string     `xml:",chardata"`
	Nodes   []*XMLNode `xml:",any"`
}

// Name returns the local name of the element.
func (n *XMLNode) Name() string {
	return n.XMLName.Local
}

// Child returns the first direct child element with the given local name.
func (n *XMLNode) Child(name string) *XMLNode {
	for _, c := range n.Nodes {
		if c.XMLName.Local == name {
			return c
		}
	}
	return nil
}

// Attr returns the value of the named attribute and whether it was present.
func (n *XMLNode) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// Has reports whether the element has a child element or attribute called name.
func (n *XMLNode) Has(name string) bool {
	if n.Child(name) != nil {
		return true
	}
	_, ok := n.Attr(name)
	return ok
}
