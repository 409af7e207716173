package shape

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Record is the shaped document for a single node or way.
//
// Tags holds the allow-listed tags. They are stored as top level keys in
// the JSON document, next to the fixed fields.
type Record struct {
	ID       string
	Type     string
	Visible  *string
	Created  map[string]string
	Pos      []float64
	Address  map[string]string
	NodeRefs []string
	Tags     map[string]string
}

const (
	keyID       = "id"
	keyType     = "type"
	keyVisible  = "visible"
	keyCreated  = "created"
	keyPos      = "pos"
	keyAddress  = "address"
	keyNodeRefs = "node_refs"
)

func isReservedKey(k string) bool {
	switch k {
	case keyID, keyType, keyVisible, keyCreated, keyPos, keyAddress, keyNodeRefs:
		return true
	}
	return false
}

// SetTag sets a top level tag field.
func (r *Record) SetTag(k, v string) {
	if r.Tags == nil {
		r.Tags = make(map[string]string)
	}
	r.Tags[k] = v
}

// SetAddress sets a single address component.
func (r *Record) SetAddress(k, v string) {
	if r.Address == nil {
		r.Address = make(map[string]string)
	}
	r.Address[k] = v
}

func (r *Record) SetCreated(k, v string) {
	if r.Created == nil {
		r.Created = make(map[string]string)
	}
	r.Created[k] = v
}

// AppendNodeRef appends ref to the ordered node references.
func (r *Record) AppendNodeRef(ref string) {
	r.NodeRefs = append(r.NodeRefs, ref)
}

// Document returns the record as a generic JSON-like document. Optional
// fields are only included if set.
func (r *Record) Document() map[string]interface{} {
	doc := make(map[string]interface{}, 4+len(r.Tags))
	for k, v := range r.Tags {
		doc[k] = v
	}
	doc[keyID] = r.ID
	doc[keyType] = r.Type
	if r.Visible != nil {
		doc[keyVisible] = *r.Visible
	}
	if len(r.Created) > 0 {
		doc[keyCreated] = r.Created
	}
	if len(r.Pos) > 0 {
		doc[keyPos] = r.Pos
	}
	if len(r.Address) > 0 {
		doc[keyAddress] = r.Address
	}
	if len(r.NodeRefs) > 0 {
		doc[keyNodeRefs] = r.NodeRefs
	}
	return doc
}

func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Document())
}

func (r *Record) UnmarshalJSON(b []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}
	*r = Record{}
	for k, raw := range doc {
		var err error
		switch k {
		case keyID:
			err = json.Unmarshal(raw, &r.ID)
		case keyType:
			err = json.Unmarshal(raw, &r.Type)
		case keyVisible:
			var v string
			err = json.Unmarshal(raw, &v)
			r.Visible = &v
		case keyCreated:
			err = json.Unmarshal(raw, &r.Created)
		case keyPos:
			err = json.Unmarshal(raw, &r.Pos)
		case keyAddress:
			err = json.Unmarshal(raw, &r.Address)
		case keyNodeRefs:
			err = json.Unmarshal(raw, &r.NodeRefs)
		default:
			var v string
			err = json.Unmarshal(raw, &v)
			r.SetTag(k, v)
		}
		if err != nil {
			return errors.Wrapf(err, "decoding field %q", k)
		}
	}
	if r.ID == "" || r.Type == "" {
		return errors.New("record without id or type")
	}
	return nil
}
