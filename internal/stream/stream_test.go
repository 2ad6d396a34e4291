package stream

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/clearhouse-io/clearhouse/internal/engine"
)

func TestReaderParsesRecords(t *testing.T) {
	input := strings.Join([]string{
		"type, client, tx, amount",
		"deposit, 1, 1, 100.0",
		"withdrawal, 1, 2, 25.5",
		"dispute, 1, 1,",
		"chargeback, 1, 1",
	}, "\n")

	r, err := NewReader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("new reader: %v", err)
	}

	want := []engine.Record{
		{Type: engine.RecordDeposit, Client: 1, Tx: 1, Amount: "100.0"},
		{Type: engine.RecordWithdrawal, Client: 1, Tx: 2, Amount: "25.5"},
		{Type: engine.RecordDispute, Client: 1, Tx: 1},
		{Type: engine.RecordChargeback, Client: 1, Tx: 1},
	}
	for i, w := range want {
		rec, err := r.Next()
		if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
		if rec != w {
			t.Fatalf("record %d: got %+v want %+v", i, rec, w)
		}
	}

	if _, err := r.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestReaderRejectsBrokenHeader(t *testing.T) {
	if _, err := NewReader(strings.NewReader("type,client,amount\n")); err == nil {
		t.Fatalf("expected header error")
	}
	if _, err := NewReader(strings.NewReader("")); err == nil {
		t.Fatalf("expected error on empty stream")
	}
}

func TestReaderRowErrorsAreLocal(t *testing.T) {
	input := strings.Join([]string{
		"type,client,tx,amount",
		"teleport,1,1,100.0",
		"deposit,70000,2,1.0",
		"deposit,1,notanumber,1.0",
		"deposit,1,3,2.5",
	}, "\n")

	r, err := NewReader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("new reader: %v", err)
	}

	var bad, good int
	for {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			bad++
			continue
		}
		good++
		if rec.Tx != 3 {
			t.Fatalf("unexpected surviving record %+v", rec)
		}
	}
	if bad != 3 || good != 1 {
		t.Fatalf("expected 3 bad / 1 good rows, got %d / %d", bad, good)
	}
}

func TestWriterOutput(t *testing.T) {
	var out strings.Builder
	w := NewWriter(&out)

	err := w.WriteSnapshots([]engine.AccountSnapshot{
		{Client: "1", Available: "1.5000", Held: "0.0000", Total: "1.5000", Locked: false},
		{Client: "2", Available: "0.0000", Held: "0.0000", Total: "0.0000", Locked: true},
	})
	if err != nil {
		t.Fatalf("write snapshots: %v", err)
	}

	want := "client,available,held,total,locked\n" +
		"1,1.5000,0.0000,1.5000,false\n" +
		"2,0.0000,0.0000,0.0000,true\n"
	if out.String() != want {
		t.Fatalf("output mismatch:\n%s", out.String())
	}
}

func TestRoundTripThroughEngine(t *testing.T) {
	input := strings.Join([]string{
		"type,client,tx,amount",
		"deposit,1,1,1.0",
		"deposit,2,2,2.0",
		"deposit,1,3,2.0",
		"withdrawal,1,4,1.5",
		"withdrawal,2,5,3.0",
	}, "\n")

	r, err := NewReader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("new reader: %v", err)
	}

	l := engine.NewLedger()
	var rejected []error
	for {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if err := l.Process(rec); err != nil {
			rejected = append(rejected, err)
		}
	}

	// The 3.0 withdrawal against client 2's 2.0 balance is the only reject.
	if len(rejected) != 1 || !errors.Is(rejected[0], engine.ErrWithdrawalLimit) {
		t.Fatalf("expected one withdrawal limit rejection, got %v", rejected)
	}

	snap, err := l.Snapshot(1)
	if err != nil {
		t.Fatalf("snapshot 1: %v", err)
	}
	if snap.Available != "1.5000" || snap.Total != "1.5000" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	snap, err = l.Snapshot(2)
	if err != nil {
		t.Fatalf("snapshot 2: %v", err)
	}
	if snap.Available != "2.0000" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}
