package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/papapumpkin/qadash/internal/catalog"
	"github.com/papapumpkin/qadash/internal/session"
	"github.com/papapumpkin/qadash/internal/status"
)

func containsAll(t *testing.T, output string, substrs ...string) {
	t.Helper()
	for _, s := range substrs {
		if !strings.Contains(output, s) {
			t.Errorf("expected output to contain %q, got:\n%s", s, output)
		}
	}
}

func TestRepository(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := NewWriter(&buf)
	p.Repository("/data/rc2", catalog.Sample(1, 30))

	out := buf.String()
	containsAll(t, out,
		"repository: /data/rc2",
		"tract:    9615",
		"HSC-R",
		"30 rows",
		"qaBad_flag",
	)
	if strings.Contains(out, "\033[") {
		t.Errorf("writer printer should not emit ANSI codes, got:\n%s", out)
	}
}

func TestRepositoryMissingBand(t *testing.T) {
	t.Parallel()

	c := catalog.Sample(1, 10)
	delete(c.Objects, "HSC-Z")

	var buf bytes.Buffer
	NewWriter(&buf).Repository("/r", c)
	containsAll(t, buf.String(), "HSC-Z    missing")
}

func TestValidateResult(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := NewWriter(&buf)
	p.ValidateResult("/r", 4, nil)
	containsAll(t, buf.String(), `✓ repository "/r"`, "4 categories, no errors")

	buf.Reset()
	p.ValidateResult("/r", 4, []error{errors.New("HSC-R/visits: table not stored")})
	containsAll(t, buf.String(), "1 error(s)", "• HSC-R/visits: table not stored")
}

func TestFrame(t *testing.T) {
	t.Parallel()

	s := session.New(session.Options{})
	s.Install(catalog.Sample(2, 40), "/r")
	if err := s.SelectMetrics("HSC-R", []string{"base_Footprint_nPix"}); err != nil {
		t.Fatalf("SelectMetrics: %v", err)
	}
	if err := s.AddFlag("qaBad_flag", false, "HSC-R"); err != nil {
		t.Fatalf("AddFlag: %v", err)
	}

	var buf bytes.Buffer
	NewWriter(&buf).Frame(s.Render())
	out := buf.String()
	containsAll(t, out,
		"── Detail View ──",
		"HSC-R    qaBad_flag==False",
		"HSC-R - visits",
		"HSC-R - base_Footprint_nPix",
		"• Added Flag Filter — qaBad_flag : False",
	)
}

func TestFrameEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewWriter(&buf).Frame(session.Frame{})
	containsAll(t, buf.String(), "(no plots)")
}

func TestMessageSeverities(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := NewWriter(&buf)
	p.Message(status.Success("Data Ready", ""))
	p.Message(status.Warning("Flag Filter Not Set", "x"))
	p.Message(status.FromError("Filtering Error", "/r", errors.New("bad")))

	containsAll(t, buf.String(),
		"✓ Data Ready\n",
		"⚠ Flag Filter Not Set — x",
		"✗ Filtering Error — Path: /r\n    Cause: bad",
	)
}
