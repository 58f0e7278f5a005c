package event

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrBadEnvelope indicates the trigger payload could not be decoded into a
// capture event.
var ErrBadEnvelope = errors.New("malformed capture envelope")

// Envelope is the capture-event payload delivered by the stream processor: a
// locator for the video fragment that triggered the event plus, when the
// processor already ran a face search, its result.
type Envelope struct {
	Input      InputInformation  `json:"InputInformation"`
	FaceSearch []FaceSearchEntry `json:"FaceSearchResponse"`
}

// InputInformation locates the triggering video fragment.
type InputInformation struct {
	KinesisVideo KinesisVideo `json:"KinesisVideo"`
}

// KinesisVideo identifies the source stream and fragment.
type KinesisVideo struct {
	StreamName     string `json:"StreamName"`
	FragmentNumber string `json:"FragmentNumber"`
}

// FaceSearchEntry is one detected face and its directory matches.
type FaceSearchEntry struct {
	MatchedFaces []MatchedFace `json:"MatchedFaces"`
}

// MatchedFace is a single directory hit.
type MatchedFace struct {
	Face       Face    `json:"Face"`
	Similarity float64 `json:"Similarity"`
}

// Face carries the identity key the directory stored at enrollment time.
type Face struct {
	ExternalImageID string  `json:"ExternalImageId"`
	FaceID          string  `json:"FaceId"`
	Confidence      float64 `json:"Confidence"`
}

// MatchResult classifies a capture as a known or unknown visitor. The zero
// value is Unmatched.
type MatchResult struct {
	IdentityKey string
}

// Matched reports whether the capture resolved to an enrolled identity.
func (m MatchResult) Matched() bool {
	return m.IdentityKey != ""
}

// record wraps an envelope the way at-least-once stream triggers deliver it:
// base64 data nested under Records[].kinesis.
type record struct {
	Kinesis struct {
		Data []byte `json:"data"`
	} `json:"kinesis"`
}

type recordBatch struct {
	Records []record `json:"Records"`
}

// Decode parses a trigger body into an Envelope. It accepts both the bare
// payload document and the Records wrapper with base64-encoded data.
func Decode(body []byte) (Envelope, error) {
	var batch recordBatch
	if err := json.Unmarshal(body, &batch); err == nil && len(batch.Records) > 0 {
		body = batch.Records[0].Kinesis.Data
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrBadEnvelope, err)
	}

	if env.Input.KinesisVideo.StreamName == "" && env.Input.KinesisVideo.FragmentNumber == "" {
		return Envelope{}, fmt.Errorf("%w: missing input information", ErrBadEnvelope)
	}

	return env, nil
}

// MatchResult reports the face-search outcome embedded in the envelope. The
// second return is false when the envelope carries no face-search section at
// all, in which case the caller must ask the face directory itself.
func (e Envelope) MatchResult() (MatchResult, bool) {
	if len(e.FaceSearch) == 0 {
		return MatchResult{}, false
	}
	for _, entry := range e.FaceSearch {
		if len(entry.MatchedFaces) > 0 {
			return MatchResult{IdentityKey: entry.MatchedFaces[0].Face.ExternalImageID}, true
		}
	}
	return MatchResult{}, true
}

// FragmentID returns a stable identifier for the triggering fragment, used to
// deduplicate redeliveries at the trigger boundary.
func (e Envelope) FragmentID() string {
	return e.Input.KinesisVideo.StreamName + ":" + e.Input.KinesisVideo.FragmentNumber
}
