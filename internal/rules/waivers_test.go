package rules

import (
	"testing"

	"github.com/codewithboateng/rpglint/internal/ir"
	"github.com/codewithboateng/rpglint/internal/storage"
)

func TestApplyWaivers(t *testing.T) {
	findings := []ir.Finding{
		{RuleID: "bif.sorta", File: "src/orders.rpgle", Line: 10, Excerpt: "%sorta(numbers)"},
		{RuleID: "bif.sorta", File: "src/invoices.rpgle", Line: 4, Excerpt: "%sorta(codes)"},
		{RuleID: "op.while-loop", File: "src/orders.rpgle", Line: 20, Excerpt: "while x < 10"},
	}

	t.Run("rule only", func(t *testing.T) {
		kept, waived := ApplyWaivers(findings, []storage.Waiver{{RuleID: "bif.sorta"}})
		if waived != 2 || len(kept) != 1 {
			t.Fatalf("waived=%d kept=%d, want 2/1", waived, len(kept))
		}
		if kept[0].RuleID != "op.while-loop" {
			t.Errorf("kept wrong finding: %+v", kept[0])
		}
	})

	t.Run("file glob scopes the waiver", func(t *testing.T) {
		kept, waived := ApplyWaivers(findings, []storage.Waiver{
			{RuleID: "bif.sorta", FileGlob: "src/orders.*"},
		})
		if waived != 1 || len(kept) != 2 {
			t.Fatalf("waived=%d kept=%d, want 1/2", waived, len(kept))
		}
	})

	t.Run("pattern substring scopes the waiver", func(t *testing.T) {
		kept, waived := ApplyWaivers(findings, []storage.Waiver{
			{RuleID: "bif.sorta", PatternSub: "codes"},
		})
		if waived != 1 || len(kept) != 2 {
			t.Fatalf("waived=%d kept=%d, want 1/2", waived, len(kept))
		}
	})

	t.Run("no waivers is a no-op", func(t *testing.T) {
		kept, waived := ApplyWaivers(findings, nil)
		if waived != 0 || len(kept) != len(findings) {
			t.Fatalf("waived=%d kept=%d, want 0/%d", waived, len(kept), len(findings))
		}
	})
}
