package verify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"ballotaudit/internal/adapters/crypto/reference"
	"ballotaudit/internal/core/ballot"
	"ballotaudit/internal/core/ballotid"
	"ballotaudit/internal/core/decoder"
	"ballotaudit/internal/core/plaintext"
	"ballotaudit/internal/core/primitives"
	"ballotaudit/internal/core/signature"
)

type countingRecorder struct {
	mu          sync.Mutex
	results     map[Result]int
	signatures  map[signature.Status]int
	diagnostics map[plaintext.Kind]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{
		results:     map[Result]int{},
		signatures:  map[signature.Status]int{},
		diagnostics: map[plaintext.Kind]int{},
	}
}

func (c *countingRecorder) ObserveVerification(_ ballot.Kind, r Result, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[r]++
}

func (c *countingRecorder) ObserveSignature(s signature.Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.signatures[s]++
}

func (c *countingRecorder) ObserveDiagnostic(k plaintext.Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diagnostics[k]++
}

func TestSample_SmokeTest(t *testing.T) {
	raw, id := SampleArtifact()
	rec := newCountingRecorder()
	e := New(reference.New(), WithMetrics(rec))

	out, err := e.Verify(context.Background(), raw, id)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !out.BallotIDMatches {
		t.Fatalf("sample ballot id does not match")
	}
	if out.HashScheme != ballotid.SchemePrimary || out.BallotHash != id {
		t.Fatalf("hash = %s (%s), want %s", out.BallotHash, out.HashScheme, id)
	}
	if out.Signature != signature.Valid {
		t.Fatalf("signature = %s", out.Signature)
	}
	if n := out.Diagnostics(); n != 0 {
		t.Fatalf("sample has %d diagnostics: %+v", n, out.Contests)
	}
	if len(out.Contests) != 2 || !out.Spoiled || out.Kind != ballot.KindSingle {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if got := out.Contests[0].SelectedIDs(); len(got) != 1 || got[0] != "bob" {
		t.Fatalf("mayor selections = %v", got)
	}
	if rec.results[ResultMatch] != 1 || rec.signatures[signature.Valid] != 1 {
		t.Fatalf("recorder = %+v", rec)
	}
}

func TestSample_Deterministic(t *testing.T) {
	a, ida := SampleArtifact()
	b, idb := SampleArtifact()
	if string(a) != string(b) || ida != idb {
		t.Fatalf("sample artifact is not deterministic")
	}
	if GenerateSampleAuditableBallot().Config().ElectionID != "sample-election" {
		t.Fatalf("unexpected sample election")
	}
}

func TestVerify_SingleCharacterMutation(t *testing.T) {
	raw, id := SampleArtifact()
	r, err := New(reference.New()).Prepare(context.Background(), raw)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if !r.Check(id).BallotIDMatches {
		t.Fatalf("exact id rejected")
	}
	for i := range id {
		mut := []byte(id)
		mut[i] ^= 0x01
		if out := r.Check(string(mut)); out.BallotIDMatches {
			t.Fatalf("mutation at %d matched", i)
		}
	}
	for _, claim := range []string{" " + id, id + " ", "", id[:len(id)-1]} {
		if r.Check(claim).BallotIDMatches {
			t.Fatalf("claim %q matched", claim)
		}
	}
}

func TestRun_CheckReusesDecode(t *testing.T) {
	raw, id := SampleArtifact()
	r, err := New(reference.New()).Prepare(context.Background(), raw)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if r.State() != StateDecoded {
		t.Fatalf("state = %s, want decoded", r.State())
	}
	miss := r.Check("nope")
	if miss.BallotIDMatches || len(miss.Contests) != 2 {
		t.Fatalf("mismatch outcome = %+v", miss)
	}
	hit := r.Check(id)
	if !hit.BallotIDMatches {
		t.Fatalf("corrected id rejected")
	}
	if r.State() != StateDone {
		t.Fatalf("state = %s, want done", r.State())
	}
	if miss.RunID != hit.RunID {
		t.Fatalf("run id changed between checks")
	}
	// outcomes must not share contest storage with the run
	miss.Contests[0].Choices[0].Selected = 5
	if r.Check(id).Contests[0].Choices[0].Selected == 5 {
		t.Fatalf("outcome aliases run state")
	}
}

func TestRun_RecheckObservedOnce(t *testing.T) {
	raw, id := SampleArtifact()
	rec := newCountingRecorder()
	r, err := New(reference.New(), WithMetrics(rec)).Prepare(context.Background(), raw)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	r.Check("typo")
	r.Check(id)
	r.Check(id)

	if got := rec.results[ResultMismatch] + rec.results[ResultMatch]; got != 1 {
		t.Fatalf("verifications observed = %d, want 1 (%v)", got, rec.results)
	}
	if rec.results[ResultMismatch] != 1 {
		t.Fatalf("first verdict not kept: %v", rec.results)
	}
}

func TestVerify_LegacyId(t *testing.T) {
	raw, _ := SampleArtifact()
	r, err := New(reference.New()).Prepare(context.Background(), raw)
	if err != nil {
		t.Fatal(err)
	}
	out := r.Check(r.Hash().Legacy)
	if !out.BallotIDMatches || out.HashScheme != ballotid.SchemeLegacy || out.BallotHash != r.Hash().Legacy {
		t.Fatalf("legacy outcome = %+v", out)
	}
}

func TestVerify_UnsignedBallot(t *testing.T) {
	b := GenerateSampleAuditableBallot().(*ballot.SingleContestBallot)
	b.VoterBallotSignature = ""
	out, err := New(reference.New()).VerifyBallot(context.Background(), b, b.BallotHash)
	if err != nil {
		t.Fatalf("VerifyBallot: %v", err)
	}
	if out.Signature != signature.Absent {
		t.Fatalf("signature = %s, want absent", out.Signature)
	}
}

func TestVerify_Errors(t *testing.T) {
	raw, id := SampleArtifact()
	var artifact map[string]any
	if err := json.Unmarshal(raw, &artifact); err != nil {
		t.Fatal(err)
	}
	delete(artifact, "config")
	noConfig, _ := json.Marshal(artifact)

	rec := newCountingRecorder()
	e := New(reference.New(), WithMetrics(rec))

	_, err := e.Verify(context.Background(), []byte("{"), id)
	var ee *EngineError
	if !errors.As(err, &ee) || ee.Stage != StageParse || !errors.Is(err, ballot.ErrMalformed) {
		t.Fatalf("malformed err = %v", err)
	}

	_, err = e.Verify(context.Background(), noConfig, id)
	if !errors.Is(err, ballot.ErrMissingConfig) {
		t.Fatalf("missing config err = %v", err)
	}

	b := GenerateSampleAuditableBallot().(*ballot.SingleContestBallot)
	b.Contests[0].AuditKey = reference.AuditKeyFromSeed("someone else")
	_, err = e.VerifyBallot(context.Background(), b, id)
	var de *decoder.DecodeError
	if !errors.As(err, &de) || de.Kind != decoder.CiphertextInvalid {
		t.Fatalf("decode err = %v", err)
	}
	if !errors.As(err, &ee) || ee.Stage != StageDecode {
		t.Fatalf("stage = %v", err)
	}

	if rec.results[ResultFailed] != 3 {
		t.Fatalf("failed count = %d", rec.results[ResultFailed])
	}
}

func TestVerify_Cancelled(t *testing.T) {
	raw, id := SampleArtifact()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out, err := New(reference.New()).Verify(ctx, raw, id)
	if !IsCanceled(err) {
		t.Fatalf("err = %v, want cancellation", err)
	}
	if out.Contests != nil || out.BallotHash != "" {
		t.Fatalf("partial outcome returned: %+v", out)
	}
}

type brokenHasher struct{ reference.Adapter }

func (brokenHasher) HashBallot(context.Context, primitives.HashableBallot) (string, error) {
	return "", errors.New("hash unavailable")
}

func TestVerify_HashFailure(t *testing.T) {
	raw, id := SampleArtifact()
	_, err := New(brokenHasher{}).Verify(context.Background(), raw, id)
	var ee *EngineError
	if !errors.As(err, &ee) || ee.Stage != StageHash {
		t.Fatalf("err = %v, want hash stage failure", err)
	}
}

func TestVerify_ConcurrentUse(t *testing.T) {
	raw, id := SampleArtifact()
	e := New(reference.New())
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := e.Verify(context.Background(), raw, id)
			if err == nil && !out.BallotIDMatches {
				err = errors.New("mismatch")
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent verify: %v", err)
		}
	}
}

func TestWithClock(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	raw, id := SampleArtifact()
	out, err := New(reference.New(), WithClock(func() time.Time { return fixed })).Verify(context.Background(), raw, id)
	if err != nil {
		t.Fatal(err)
	}
	if !out.VerifiedAt.Equal(fixed) {
		t.Fatalf("VerifiedAt = %s", out.VerifiedAt)
	}
}
