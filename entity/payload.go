package entity

import (
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Keys of the record envelope used by the labeling service API.
const (
	PayloadKeyData     = "data"
	PayloadKeyRecord   = "record"
	PayloadKeyMetadata = "metadata"
	PayloadKeyFields   = "fields"
	PayloadKeyRecordId = "record_id"
)

// Payload is one record as exchanged with the service, either wrapped in the
// API envelope:
//
//	{"data": {...}, "metadata": {"record_id": "...", "fields": {...}}}
//
// or a plain JSON object to transform locally. The envelope form carries field
// metadata from the labeling service; the plain form has none.
type Payload struct {
	Record   *Record
	Meta     RecordMeta
	RecordId string

	// envelopeKey is "data" or "record" when the payload came wrapped in the
	// API envelope, empty for plain records.
	envelopeKey string
}

// NewPayload parses a record payload, sniffing for the API envelope. A document
// only counts as enveloped when it has both a record key and a metadata object
// with a record ID, mirroring the service response format; anything else is
// treated as a plain record.
func NewPayload(data []byte) (*Payload, error) {
	parsed := gjson.ParseBytes(data)
	recordId := parsed.Get(PayloadKeyMetadata + "." + PayloadKeyRecordId).String()

	var envelopeKey string
	if recordId != "" {
		for _, key := range []string{PayloadKeyData, PayloadKeyRecord} {
			if parsed.Get(key).IsObject() {
				envelopeKey = key
				break
			}
		}
	}
	if envelopeKey == "" {
		record, err := NewRecordFromJSON(data)
		if err != nil {
			return nil, err
		}
		return &Payload{Record: record, RecordId: uuid.NewString()}, nil
	}

	record, err := NewRecordFromJSON([]byte(parsed.Get(envelopeKey).Raw))
	if err != nil {
		return nil, err
	}
	p := &Payload{
		Record:      record,
		RecordId:    recordId,
		envelopeKey: envelopeKey,
	}
	metaFields := parsed.Get(PayloadKeyMetadata + "." + PayloadKeyFields)
	if metaFields.IsObject() {
		p.Meta, err = NewRecordMetaFromJSON([]byte(metaFields.Raw))
		if err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Enveloped reports whether the payload came wrapped in the API envelope.
// JSON() reproduces the same shape it was parsed from.
func (p *Payload) Enveloped() bool {
	return p.envelopeKey != ""
}

// WithRecord returns a copy of the payload holding a different record, keeping
// envelope shape and record ID. Used to emit a transformed record in the same
// format its source arrived in.
func (p *Payload) WithRecord(record *Record) *Payload {
	return &Payload{
		Record:      record,
		RecordId:    p.RecordId,
		envelopeKey: p.envelopeKey,
	}
}

func (p *Payload) JSON() ([]byte, error) {
	recordData, err := p.Record.JSON()
	if err != nil {
		return nil, err
	}
	if !p.Enveloped() {
		return recordData, nil
	}
	out := []byte("{}")
	if out, err = sjson.SetRawBytes(out, p.envelopeKey, recordData); err != nil {
		return nil, err
	}
	return sjson.SetBytes(out, PayloadKeyMetadata+"."+PayloadKeyRecordId, p.RecordId)
}
