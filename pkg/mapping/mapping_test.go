package mapping

import (
	"strings"
	"testing"

	"github.com/lawkit/statuta/pkg/tokenizer"
)

const comparisonCSV = `BNS Sections/ Subsections,IPC Sections,Subject,Summary of comparison
1,1,Short title,New nomenclature adopted.
2,2,Definitions,Ditto
3,,Orphan row without old section,Skipped
101,302,Punishment for murder,Section renumbered without change.
`

func TestFromCSV_ReadsRecordsInOrder(t *testing.T) {
	records, err := FromCSV(strings.NewReader(comparisonCSV), DefaultColumns())
	if err != nil {
		t.Fatalf("FromCSV failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d: %+v", len(records), records)
	}
	if records[2].NewSection != "101" || records[2].OldSection != "302" {
		t.Errorf("unexpected third record: %+v", records[2])
	}
	if records[2].NewSubject != "Punishment for murder" {
		t.Errorf("subject not carried: %+v", records[2])
	}
}

func TestFromCSV_DittoCarriesSummaryForward(t *testing.T) {
	records, err := FromCSV(strings.NewReader(comparisonCSV), DefaultColumns())
	if err != nil {
		t.Fatalf("FromCSV failed: %v", err)
	}
	if records[1].Summary != "New nomenclature adopted." {
		t.Errorf("ditto summary not carried forward: %q", records[1].Summary)
	}
}

func TestFromCSV_DittoOnFirstRecordIsEmpty(t *testing.T) {
	csv := "BNS Sections/ Subsections,IPC Sections,Subject,Summary of comparison\n1,1,Title,ditto\n"
	records, err := FromCSV(strings.NewReader(csv), DefaultColumns())
	if err != nil {
		t.Fatalf("FromCSV failed: %v", err)
	}
	if records[0].Summary != "" {
		t.Errorf("first-row ditto should clear the summary, got %q", records[0].Summary)
	}
}

func TestFromCSV_CustomColumns(t *testing.T) {
	csv := `BNSS Sections,CrPC Sections,Subject,Summary of comparison
2,4,Trial of offences,Procedure restated.
187,167,Remand,Detention ceiling revised.
`
	cols := Columns{
		NewSection: "BNSS Sections",
		OldSection: "CrPC Sections",
		Subject:    "Subject",
		Summary:    "Summary of comparison",
	}
	records, err := FromCSV(strings.NewReader(csv), cols)
	if err != nil {
		t.Fatalf("FromCSV failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d: %+v", len(records), records)
	}
	if records[1].NewSection != "187" || records[1].OldSection != "167" {
		t.Errorf("unexpected second record: %+v", records[1])
	}
	if records[1].Summary != "Detention ceiling revised." {
		t.Errorf("summary not read through custom columns: %+v", records[1])
	}
}

func TestFromCSV_SkipsRowsMissingSections(t *testing.T) {
	records, err := FromCSV(strings.NewReader(comparisonCSV), DefaultColumns())
	if err != nil {
		t.Fatalf("FromCSV failed: %v", err)
	}
	for _, rec := range records {
		if rec.NewSection == "" || rec.OldSection == "" {
			t.Errorf("row missing a section was not skipped: %+v", rec)
		}
	}
}

func TestFromCSV_HeaderMatchingIsForgiving(t *testing.T) {
	csv := "bns sections/  subsections,IPC  SECTIONS,subject,SUMMARY of comparison\n1,1,Title,Text\n"
	records, err := FromCSV(strings.NewReader(csv), DefaultColumns())
	if err != nil {
		t.Fatalf("header variant rejected: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
}

func TestFromCSV_MissingSectionColumnErrors(t *testing.T) {
	csv := "Subject,Summary of comparison\nTitle,Text\n"
	if _, err := FromCSV(strings.NewReader(csv), DefaultColumns()); err == nil {
		t.Fatal("expected error for missing section columns")
	}
}

func TestFromCSV_FlattensMultilineCells(t *testing.T) {
	csv := "BNS Sections/ Subsections,IPC Sections,Subject,Summary of comparison\n1,1,\"Of offences\naffecting life\",Text\n"
	records, err := FromCSV(strings.NewReader(csv), DefaultColumns())
	if err != nil {
		t.Fatalf("FromCSV failed: %v", err)
	}
	if records[0].NewSubject != "Of offences affecting life" {
		t.Errorf("multiline cell not flattened: %q", records[0].NewSubject)
	}
}

func TestAuditTokens_FlagsOversizedRecords(t *testing.T) {
	long := strings.TrimSpace(strings.Repeat("word ", 40))
	records := []Record{
		{NewSection: "1", OldSection: "1", Summary: "short"},
		{NewSection: "2", OldSection: "2", Summary: long},
	}
	over := AuditTokens(records, tokenizer.Words{}, 20)
	if len(over) != 1 {
		t.Fatalf("expected 1 overflow, got %d", len(over))
	}
	if over[0].Record.NewSection != "2" {
		t.Errorf("wrong record flagged: %+v", over[0])
	}
	if over[0].Tokens <= 20 {
		t.Errorf("overflow token count not recorded: %d", over[0].Tokens)
	}
}
