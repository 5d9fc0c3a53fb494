// Package validation decodes inbound webhook payloads against an
// explicit set of known schema shapes. The booking vendor has shipped
// several payload layouts over time; each one is matched with a JSON
// schema and decoded explicitly, with a final unrecognized-shape error
// instead of best-effort field probing.
package validation

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// BookingShape identifies which known payload layout matched.
type BookingShape string

const (
	ShapeNestedAttendees BookingShape = "nested-attendees"
	ShapeNestedResponses BookingShape = "nested-responses"
	ShapeFlatAttendees   BookingShape = "flat-attendees"
	ShapeFlatResponses   BookingShape = "flat-responses"
)

// Booking is the normalized booking event extracted from a webhook body.
type Booking struct {
	TriggerEvent string
	Email        string
	Name         string
	Shape        BookingShape
	// Ping is set for the vendor's webhook test events.
	Ping bool
}

type shapeSchema struct {
	shape  BookingShape
	schema *gojsonschema.Schema
}

var bookingShapes []shapeSchema

func init() {
	defs := []struct {
		shape BookingShape
		raw   string
	}{
		{
			shape: ShapeNestedAttendees,
			raw: `{
				"type": "object",
				"required": ["triggerEvent", "payload"],
				"properties": {
					"triggerEvent": {"type": "string"},
					"payload": {
						"type": "object",
						"required": ["attendees"],
						"properties": {
							"attendees": {
								"type": "array",
								"minItems": 1,
								"items": {
									"type": "object",
									"required": ["email"],
									"properties": {
										"email": {"type": "string"},
										"name": {"type": "string"}
									}
								}
							}
						}
					}
				}
			}`,
		},
		{
			shape: ShapeNestedResponses,
			raw: `{
				"type": "object",
				"required": ["triggerEvent", "payload"],
				"properties": {
					"triggerEvent": {"type": "string"},
					"payload": {
						"type": "object",
						"required": ["responses"],
						"properties": {
							"responses": {
								"type": "object",
								"required": ["email"],
								"properties": {
									"email": {"type": "string"}
								}
							}
						}
					}
				}
			}`,
		},
		{
			shape: ShapeFlatAttendees,
			raw: `{
				"type": "object",
				"required": ["triggerEvent", "attendees"],
				"properties": {
					"triggerEvent": {"type": "string"},
					"attendees": {
						"type": "array",
						"minItems": 1,
						"items": {
							"type": "object",
							"required": ["email"],
							"properties": {
								"email": {"type": "string"},
								"name": {"type": "string"}
							}
						}
					}
				}
			}`,
		},
		{
			shape: ShapeFlatResponses,
			raw: `{
				"type": "object",
				"required": ["triggerEvent", "responses"],
				"properties": {
					"triggerEvent": {"type": "string"},
					"responses": {
						"type": "object",
						"required": ["email"],
						"properties": {
							"email": {"type": "string"}
						}
					}
				}
			}`,
		},
	}

	for _, def := range defs {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(def.raw))
		if err != nil {
			panic(fmt.Sprintf("invalid booking schema %s: %v", def.shape, err))
		}
		bookingShapes = append(bookingShapes, shapeSchema{shape: def.shape, schema: schema})
	}
}

// bookingEnvelope mirrors every field any known shape can carry.
type bookingEnvelope struct {
	TriggerEvent string `json:"triggerEvent"`
	Test         bool   `json:"test"`
	Attendees    []struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	} `json:"attendees"`
	Responses struct {
		Email string `json:"email"`
	} `json:"responses"`
	Payload struct {
		Attendees []struct {
			Email string `json:"email"`
			Name  string `json:"name"`
		} `json:"attendees"`
		Responses struct {
			Email string `json:"email"`
		} `json:"responses"`
	} `json:"payload"`
}

// ParseBooking matches raw against the known payload shapes in order
// and returns the normalized booking. Ping/test events short-circuit
// before shape matching. An unmatched body returns an error naming the
// failure rather than silently extracting nothing.
func ParseBooking(raw []byte) (*Booking, error) {
	var env bookingEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("malformed booking payload: %w", err)
	}

	if env.TriggerEvent == "PING" || env.Test {
		return &Booking{TriggerEvent: env.TriggerEvent, Ping: true}, nil
	}

	doc := gojsonschema.NewBytesLoader(raw)
	for _, candidate := range bookingShapes {
		result, err := candidate.schema.Validate(doc)
		if err != nil || !result.Valid() {
			continue
		}

		booking := &Booking{TriggerEvent: env.TriggerEvent, Shape: candidate.shape}
		switch candidate.shape {
		case ShapeNestedAttendees:
			booking.Email = env.Payload.Attendees[0].Email
			booking.Name = env.Payload.Attendees[0].Name
		case ShapeNestedResponses:
			booking.Email = env.Payload.Responses.Email
		case ShapeFlatAttendees:
			booking.Email = env.Attendees[0].Email
			booking.Name = env.Attendees[0].Name
		case ShapeFlatResponses:
			booking.Email = env.Responses.Email
		}
		return booking, nil
	}

	return nil, fmt.Errorf("booking payload matched no known shape (triggerEvent %q)", env.TriggerEvent)
}
