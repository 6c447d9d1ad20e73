package file

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mohammadpnp/math-server/internal/domain/personnel"
	"golang.org/x/net/html/charset"
)

var ErrEmptyDocument = errors.New("feed document has no root element")

// DecodeDocument builds the node tree of an XML feed. Element and attribute
// namespaces are resolved; non UTF-8 encodings declared in the prolog are
// converted.
func DecodeDocument(r io.Reader) (*personnel.Document, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	var (
		root  *personnel.Node
		stack []*personnel.Node
		texts []*strings.Builder
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			node := &personnel.Node{Space: t.Name.Space, Tag: t.Name.Local}
			for _, attr := range t.Attr {
				node.Attrs = append(node.Attrs, personnel.Attr{
					Space: attr.Name.Space,
					Local: attr.Name.Local,
					Value: attr.Value,
				})
			}

			if len(stack) == 0 {
				if root != nil {
					return nil, errors.New("decode xml: multiple root elements")
				}
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			}
			stack = append(stack, node)
			texts = append(texts, &strings.Builder{})

		case xml.CharData:
			if len(texts) > 0 {
				texts[len(texts)-1].Write(t)
			}

		case xml.EndElement:
			node := stack[len(stack)-1]
			node.Text = strings.TrimSpace(texts[len(texts)-1].String())
			stack = stack[:len(stack)-1]
			texts = texts[:len(texts)-1]
		}
	}

	if root == nil {
		return nil, ErrEmptyDocument
	}
	return &personnel.Document{Root: root}, nil
}
