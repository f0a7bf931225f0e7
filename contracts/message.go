package contracts

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// The domain messages below mirror the ad server's protobuf schema. The
// schema is small and fixed, so the wire format is handled directly with
// protowire rather than generated code. Field numbers must stay in sync
// with the server definition.

// AdRequest describes a single request for advertisements to show on a
// player. DisplayTime is seconds since the Unix epoch.
type AdRequest struct {
	NetworkID        string
	DeviceID         string
	VenueID          string
	DisplayTime      int64
	NumberOfScreens  int64
	DirectConnection bool
	DisplayAreas     []*DisplayArea
	MinDuration      int64
	MaxDuration      int64
}

// DisplayArea describes one renderable region on the player.
type DisplayArea struct {
	ID             string
	Width          int32
	Height         int32
	SupportedMedia []string
}

// AdResponse is the server's answer to an AdRequest. It may carry zero
// advertisements when nothing is booked for the venue.
type AdResponse struct {
	Advertisements []*Advertisement
}

// Advertisement is a single creative leased to the player. The lease is
// only valid until LeaseExpiry (seconds since the Unix epoch).
type Advertisement struct {
	ID              string
	ProofOfPlayURL  string
	LeaseExpiry     int64
	DisplayAreaID   string
	AssetID         string
	AssetURL        string
	Width           int32
	Height          int32
	MimeType        string
	LengthInSeconds int32
	CampaignID      int64
	CreativeID      string
}

// ProofOfPlay reports that a leased advertisement was actually shown.
// The server echoes it back verbatim on success.
type ProofOfPlay struct {
	LeaseID         string
	DisplayTime     int64
	NumberOfScreens int64
}

// Marshal encodes the request in protobuf wire format.
func (m *AdRequest) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.NetworkID)
	b = appendString(b, 2, m.DeviceID)
	b = appendString(b, 3, m.VenueID)
	b = appendInt(b, 4, m.DisplayTime)
	b = appendInt(b, 5, m.NumberOfScreens)
	b = appendBool(b, 6, m.DirectConnection)
	for _, area := range m.DisplayAreas {
		b = protowire.AppendTag(b, 7, protowire.BytesType)
		b = protowire.AppendBytes(b, area.Marshal())
	}
	b = appendInt(b, 8, m.MinDuration)
	b = appendInt(b, 9, m.MaxDuration)
	return b
}

// Unmarshal decodes the request from protobuf wire format, replacing the
// receiver's contents.
func (m *AdRequest) Unmarshal(data []byte) error {
	*m = AdRequest{}
	return walkFields(data, func(num protowire.Number, typ protowire.Type, field []byte) error {
		switch num {
		case 1:
			return setString(&m.NetworkID, typ, field)
		case 2:
			return setString(&m.DeviceID, typ, field)
		case 3:
			return setString(&m.VenueID, typ, field)
		case 4:
			return setInt64(&m.DisplayTime, typ, field)
		case 5:
			return setInt64(&m.NumberOfScreens, typ, field)
		case 6:
			return setBool(&m.DirectConnection, typ, field)
		case 7:
			area := new(DisplayArea)
			if err := setMessage(area, typ, field); err != nil {
				return err
			}
			m.DisplayAreas = append(m.DisplayAreas, area)
			return nil
		case 8:
			return setInt64(&m.MinDuration, typ, field)
		case 9:
			return setInt64(&m.MaxDuration, typ, field)
		}
		return errSkip
	})
}

// Marshal encodes the display area in protobuf wire format.
func (m *DisplayArea) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.ID)
	b = appendInt(b, 2, int64(m.Width))
	b = appendInt(b, 3, int64(m.Height))
	for _, media := range m.SupportedMedia {
		b = protowire.AppendTag(b, 4, protowire.BytesType)
		b = protowire.AppendString(b, media)
	}
	return b
}

// Unmarshal decodes the display area from protobuf wire format.
func (m *DisplayArea) Unmarshal(data []byte) error {
	*m = DisplayArea{}
	return walkFields(data, func(num protowire.Number, typ protowire.Type, field []byte) error {
		switch num {
		case 1:
			return setString(&m.ID, typ, field)
		case 2:
			return setInt32(&m.Width, typ, field)
		case 3:
			return setInt32(&m.Height, typ, field)
		case 4:
			var media string
			if err := setString(&media, typ, field); err != nil {
				return err
			}
			m.SupportedMedia = append(m.SupportedMedia, media)
			return nil
		}
		return errSkip
	})
}

// Marshal encodes the response in protobuf wire format.
func (m *AdResponse) Marshal() []byte {
	var b []byte
	for _, ad := range m.Advertisements {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendBytes(b, ad.Marshal())
	}
	return b
}

// Unmarshal decodes the response from protobuf wire format.
func (m *AdResponse) Unmarshal(data []byte) error {
	*m = AdResponse{}
	return walkFields(data, func(num protowire.Number, typ protowire.Type, field []byte) error {
		if num == 1 {
			ad := new(Advertisement)
			if err := setMessage(ad, typ, field); err != nil {
				return err
			}
			m.Advertisements = append(m.Advertisements, ad)
			return nil
		}
		return errSkip
	})
}

// Marshal encodes the advertisement in protobuf wire format.
func (m *Advertisement) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.ID)
	b = appendString(b, 2, m.ProofOfPlayURL)
	b = appendInt(b, 3, m.LeaseExpiry)
	b = appendString(b, 4, m.DisplayAreaID)
	b = appendString(b, 5, m.AssetID)
	b = appendString(b, 6, m.AssetURL)
	b = appendInt(b, 7, int64(m.Width))
	b = appendInt(b, 8, int64(m.Height))
	b = appendString(b, 9, m.MimeType)
	b = appendInt(b, 10, int64(m.LengthInSeconds))
	b = appendInt(b, 11, m.CampaignID)
	b = appendString(b, 12, m.CreativeID)
	return b
}

// Unmarshal decodes the advertisement from protobuf wire format.
func (m *Advertisement) Unmarshal(data []byte) error {
	*m = Advertisement{}
	return walkFields(data, func(num protowire.Number, typ protowire.Type, field []byte) error {
		switch num {
		case 1:
			return setString(&m.ID, typ, field)
		case 2:
			return setString(&m.ProofOfPlayURL, typ, field)
		case 3:
			return setInt64(&m.LeaseExpiry, typ, field)
		case 4:
			return setString(&m.DisplayAreaID, typ, field)
		case 5:
			return setString(&m.AssetID, typ, field)
		case 6:
			return setString(&m.AssetURL, typ, field)
		case 7:
			return setInt32(&m.Width, typ, field)
		case 8:
			return setInt32(&m.Height, typ, field)
		case 9:
			return setString(&m.MimeType, typ, field)
		case 10:
			return setInt32(&m.LengthInSeconds, typ, field)
		case 11:
			return setInt64(&m.CampaignID, typ, field)
		case 12:
			return setString(&m.CreativeID, typ, field)
		}
		return errSkip
	})
}

// Marshal encodes the proof of play in protobuf wire format.
func (m *ProofOfPlay) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.LeaseID)
	b = appendInt(b, 2, m.DisplayTime)
	b = appendInt(b, 3, m.NumberOfScreens)
	return b
}

// Unmarshal decodes the proof of play from protobuf wire format.
func (m *ProofOfPlay) Unmarshal(data []byte) error {
	*m = ProofOfPlay{}
	return walkFields(data, func(num protowire.Number, typ protowire.Type, field []byte) error {
		switch num {
		case 1:
			return setString(&m.LeaseID, typ, field)
		case 2:
			return setInt64(&m.DisplayTime, typ, field)
		case 3:
			return setInt64(&m.NumberOfScreens, typ, field)
		}
		return errSkip
	})
}

// errSkip tells walkFields to skip the field as unknown.
var errSkip = fmt.Errorf("skip unknown field")

type unmarshaler interface {
	Unmarshal([]byte) error
}

// walkFields iterates the top-level fields of a wire-encoded message,
// passing each (number, type, remaining bytes) triple to set. A set
// returning errSkip consumes the field as unknown per proto3 rules.
func walkFields(data []byte, set func(protowire.Number, protowire.Type, []byte) error) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return fmt.Errorf("invalid field tag: %w", protowire.ParseError(n))
		}
		data = data[n:]

		err := set(num, typ, data)
		if err == errSkip {
			skip := protowire.ConsumeFieldValue(num, typ, data)
			if skip < 0 {
				return fmt.Errorf("invalid field %d: %w", num, protowire.ParseError(skip))
			}
			data = data[skip:]
			continue
		}
		if err != nil {
			return fmt.Errorf("field %d: %w", num, err)
		}

		n = protowire.ConsumeFieldValue(num, typ, data)
		if n < 0 {
			return fmt.Errorf("invalid field %d: %w", num, protowire.ParseError(n))
		}
		data = data[n:]
	}
	return nil
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendInt(b []byte, num protowire.Number, v int64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(v))
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeBool(v))
}

func setString(dst *string, typ protowire.Type, data []byte) error {
	if typ != protowire.BytesType {
		return errSkip
	}
	v, n := protowire.ConsumeString(data)
	if n < 0 {
		return protowire.ParseError(n)
	}
	*dst = v
	return nil
}

func setInt64(dst *int64, typ protowire.Type, data []byte) error {
	if typ != protowire.VarintType {
		return errSkip
	}
	v, n := protowire.ConsumeVarint(data)
	if n < 0 {
		return protowire.ParseError(n)
	}
	*dst = int64(v)
	return nil
}

func setInt32(dst *int32, typ protowire.Type, data []byte) error {
	var v int64
	if err := setInt64(&v, typ, data); err != nil {
		return err
	}
	*dst = int32(v)
	return nil
}

func setBool(dst *bool, typ protowire.Type, data []byte) error {
	if typ != protowire.VarintType {
		return errSkip
	}
	v, n := protowire.ConsumeVarint(data)
	if n < 0 {
		return protowire.ParseError(n)
	}
	*dst = protowire.DecodeBool(v)
	return nil
}

func setMessage(dst unmarshaler, typ protowire.Type, data []byte) error {
	if typ != protowire.BytesType {
		return errSkip
	}
	v, n := protowire.ConsumeBytes(data)
	if n < 0 {
		return protowire.ParseError(n)
	}
	return dst.Unmarshal(v)
}
