package event

import (
	"encoding/base64"
	"errors"
	"fmt"
	"testing"
)

const payloadWithMatch = `{
	"InputInformation": {"KinesisVideo": {"StreamName": "KVS1", "FragmentNumber": "9134385233318150747"}},
	"FaceSearchResponse": [{"MatchedFaces": [{"Face": {"ExternalImageId": "alice-123", "FaceId": "f-1"}, "Similarity": 98.2}]}]
}`

const payloadNoMatch = `{
	"InputInformation": {"KinesisVideo": {"StreamName": "KVS1", "FragmentNumber": "42"}},
	"FaceSearchResponse": [{"MatchedFaces": []}]
}`

func TestDecodeBarePayload(t *testing.T) {
	env, err := Decode([]byte(payloadWithMatch))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if env.Input.KinesisVideo.StreamName != "KVS1" {
		t.Fatalf("expected stream KVS1, got %q", env.Input.KinesisVideo.StreamName)
	}

	res, ok := env.MatchResult()
	if !ok {
		t.Fatal("expected embedded face-search result")
	}
	if !res.Matched() || res.IdentityKey != "alice-123" {
		t.Fatalf("expected match for alice-123, got %+v", res)
	}
}

func TestDecodeRecordsWrapper(t *testing.T) {
	data := base64.StdEncoding.EncodeToString([]byte(payloadNoMatch))
	body := fmt.Sprintf(`{"Records": [{"kinesis": {"data": %q}}]}`, data)

	env, err := Decode([]byte(body))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	res, ok := env.MatchResult()
	if !ok {
		t.Fatal("expected embedded face-search result")
	}
	if res.Matched() {
		t.Fatalf("expected unmatched result, got identity %q", res.IdentityKey)
	}

	if got := env.FragmentID(); got != "KVS1:42" {
		t.Fatalf("expected fragment id KVS1:42, got %q", got)
	}
}

func TestDecodeWithoutFaceSearchSection(t *testing.T) {
	env, err := Decode([]byte(`{"InputInformation": {"KinesisVideo": {"StreamName": "KVS1", "FragmentNumber": "7"}}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if _, ok := env.MatchResult(); ok {
		t.Fatal("expected no embedded result when face-search section is absent")
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	cases := []string{
		"not json",
		"{}",
		`{"Records": [{"kinesis": {"data": "!!!"}}]}`,
	}

	for _, body := range cases {
		if _, err := Decode([]byte(body)); !errors.Is(err, ErrBadEnvelope) {
			t.Fatalf("body %q: expected ErrBadEnvelope, got %v", body, err)
		}
	}
}
