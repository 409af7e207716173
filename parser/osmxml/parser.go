// Package osmxml is a stream based parser for OSM XML files (.osm).
package osmxml

import (
	"compress/gzip"
	"encoding/xml"
	"io"
	"os"
	"strings"

	"github.com/omniscale/osmdoc/element"

	"github.com/pkg/errors"
)

// Parser returns each XML element after its end tag was read, children
// first. Elements keep their children, with the exception of the
// document root which would otherwise hold the whole file. A root node or
// way (a file with a single element) keeps its children.
type Parser struct {
	decoder *xml.Decoder
	stack   []*element.Element
	onClose func() error
}

func NewParser(r io.Reader) *Parser {
	return &Parser{decoder: xml.NewDecoder(r)}
}

// Open returns a parser for an .osm file. Files ending with .gz
// are decompressed.
func Open(fname string) (*Parser, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, errors.Wrap(err, "opening OSM file")
	}
	if !strings.HasSuffix(fname, ".gz") {
		p := NewParser(f)
		p.onClose = f.Close
		return p, nil
	}
	r, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "reading %s", fname)
	}
	p := NewParser(r)
	p.onClose = func() error {
		r.Close()
		return f.Close()
	}
	return p, nil
}

// Next returns the next completed element. Returns io.EOF at the end of
// the document.
func (p *Parser) Next() (*element.Element, error) {
	for {
		token, err := p.decoder.Token()
		if err == io.EOF {
			if len(p.stack) > 0 {
				return nil, errors.Errorf("unexpected EOF, %d unclosed elements", len(p.stack))
			}
			return nil, io.EOF
		}
		if err != nil {
			return nil, errors.Wrap(err, "parsing OSM XML")
		}

		switch tok := token.(type) {
		case xml.StartElement:
			e := element.New(tok.Name.Local)
			if len(tok.Attr) > 0 {
				e.Attrs = make([]element.Attr, len(tok.Attr))
				for i, attr := range tok.Attr {
					e.Attrs[i] = element.Attr{Name: attr.Name.Local, Value: attr.Value}
				}
			}
			p.stack = append(p.stack, e)
		case xml.EndElement:
			e := p.stack[len(p.stack)-1]
			p.stack = p.stack[:len(p.stack)-1]
			if len(p.stack) > 0 {
				parent := p.stack[len(p.stack)-1]
				if len(p.stack) > 1 || parent.Tag == element.NodeTag || parent.Tag == element.WayTag {
					parent.AddChild(e)
				}
			}
			return e, nil
		}
	}
}

// Close closes the underlying file, if the parser was created with Open.
func (p *Parser) Close() error {
	if p.onClose == nil {
		return nil
	}
	err := p.onClose()
	p.onClose = nil
	return err
}
