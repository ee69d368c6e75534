package panel

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/devicelab-dev/exploration-panel/pkg/core"
	"github.com/devicelab-dev/exploration-panel/pkg/view"
)

func TestGenerateTestCasesRequiresSelection(t *testing.T) {
	_, srv := newFakeService(t)
	c := newTestController(t, srv)

	if _, err := c.GenerateTestCases(context.Background()); !errors.Is(err, core.ErrNoSelection) {
		t.Errorf("GenerateTestCases error = %v, want ErrNoSelection", err)
	}
	if _, err := c.ShowTestCases(context.Background()); !errors.Is(err, core.ErrNoSelection) {
		t.Errorf("ShowTestCases error = %v, want ErrNoSelection", err)
	}
}

func TestGenerateTestCases(t *testing.T) {
	fs, srv := newFakeService(t)
	fs.reply("GET", "/api/explorations/b", 200, explorationB)
	fs.reply("POST", "/api/generate-tests", 200, `[
		{"id":1,"title":"A","steps":[],"expected_results":[]},
		{"id":2,"title":"B","steps":[],"expected_results":[]},
		{"id":3,"title":"C","steps":[],"expected_results":[]}
	]`)
	c := newTestController(t, srv)

	if _, err := c.OpenExploration(context.Background(), "b"); err != nil {
		t.Fatalf("OpenExploration: %v", err)
	}

	cases, err := c.GenerateTestCases(context.Background())
	if err != nil {
		t.Fatalf("GenerateTestCases: %v", err)
	}
	if len(cases) != 3 {
		t.Fatalf("expected 3 cases, got %d", len(cases))
	}
	if url := fs.body("POST", "/api/generate-tests", 0)["url"]; url != "https://blog.test" {
		t.Errorf("request url = %v", url)
	}

	note := lastNotification(t, c)
	if note.Level != view.LevelSuccess || note.Message != "Se han generado 3 casos de prueba" {
		t.Errorf("notification = %+v", note)
	}

	c.View(func(b *view.Bindings) {
		if len(b.Cases.Cards) != 3 {
			t.Errorf("cards = %d, want 3", len(b.Cases.Cards))
		}
		if b.Cases.Heading != "Casos de Prueba (3)" {
			t.Errorf("heading = %q", b.Cases.Heading)
		}
		if b.Detail.GenerateBtn.Visible() {
			t.Error("generate button should be hidden")
		}
		if !b.Detail.ShowBtn.Visible() {
			t.Error("show button should be visible")
		}
	})
	if !c.Selected().HasTestCases() {
		t.Error("selection should report test cases")
	}
}

func TestGenerateTestCasesFailureKeepsState(t *testing.T) {
	fs, srv := newFakeService(t)
	fs.reply("GET", "/api/explorations/b", 200, explorationB)
	fs.reply("POST", "/api/generate-tests", 500, `{"detail":"model unavailable"}`)
	c := newTestController(t, srv)

	if _, err := c.OpenExploration(context.Background(), "b"); err != nil {
		t.Fatalf("OpenExploration: %v", err)
	}

	if _, err := c.GenerateTestCases(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if n := len(c.TestCases()); n != 0 {
		t.Errorf("test cases = %d, want 0", n)
	}
	want := "Error al generar casos de prueba: Error 500: model unavailable"
	if msg := lastNotification(t, c).Message; msg != want {
		t.Errorf("message = %q, want %q", msg, want)
	}
	c.View(func(b *view.Bindings) {
		if !b.Detail.GenerateBtn.Visible() {
			t.Error("generate button should stay visible")
		}
	})
}

func TestShowTestCasesInjectsDriverOnce(t *testing.T) {
	fs, srv := newFakeService(t)
	fs.reply("GET", "/api/explorations/a", 200, explorationA)
	fs.reply("GET", "/api/explorations/a/test-cases-with-code", 200, twoCases)
	c := newTestController(t, srv, func(cfg *Config) {
		cfg.DefaultDriverPath = "/opt/seeded/chromedriver"
	})

	if _, err := c.OpenExploration(context.Background(), "a"); err != nil {
		t.Fatalf("OpenExploration: %v", err)
	}

	cases, err := c.ShowTestCases(context.Background())
	if err != nil {
		t.Fatalf("ShowTestCases: %v", err)
	}
	if len(cases) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(cases))
	}
	if got := c.DriverPath(); got != "/opt/seeded/chromedriver" {
		t.Errorf("DriverPath() = %q, want the configured default", got)
	}

	c.SetDriverPath("/usr/local/bin/chromedriver")
	if _, err := c.ShowTestCases(context.Background()); err != nil {
		t.Fatalf("second ShowTestCases: %v", err)
	}
	if got := c.DriverPath(); got != "/usr/local/bin/chromedriver" {
		t.Errorf("DriverPath() = %q, second fetch must not re-seed the widget", got)
	}

	c.View(func(b *view.Bindings) {
		if !b.Driver.Container.Visible() {
			t.Error("driver widget should be visible")
		}
		if len(b.Cases.Cards) != 2 {
			t.Errorf("cards = %d, want 2", len(b.Cases.Cards))
		}
		if b.Cases.Card(1).Actions != view.ActionsGenerate {
			t.Errorf("card 1 actions = %v", b.Cases.Card(1).Actions)
		}
		if b.Cases.Card(2).Actions != view.ActionsViewRun {
			t.Errorf("card 2 actions = %v", b.Cases.Card(2).Actions)
		}
	})
	if code := c.Code(2); code != "print('search')" {
		t.Errorf("Code(2) = %q", code)
	}
}

func TestShowTestCasesWithoutDefaultDriverPath(t *testing.T) {
	fs, srv := newFakeService(t)
	fs.reply("GET", "/api/explorations/a", 200, explorationA)
	fs.reply("GET", "/api/explorations/a/test-cases-with-code", 200, twoCases)
	c := newTestController(t, srv)

	if _, err := c.OpenExploration(context.Background(), "a"); err != nil {
		t.Fatalf("OpenExploration: %v", err)
	}
	if _, err := c.ShowTestCases(context.Background()); err != nil {
		t.Fatalf("ShowTestCases: %v", err)
	}

	if got := c.DriverPath(); got != "" {
		t.Errorf("DriverPath() = %q, want empty", got)
	}
	c.View(func(b *view.Bindings) {
		if b.Driver.Path.Placeholder != view.DriverPathPlaceholder {
			t.Errorf("placeholder = %q", b.Driver.Path.Placeholder)
		}
	})
}

func TestShowTestCasesEmpty(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty list", `{"status":"success","test_cases":[]}`},
		{"non-success", `{"status":"error","test_cases":[{"id":1}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs, srv := newFakeService(t)
			fs.reply("GET", "/api/explorations/a", 200, explorationA)
			fs.reply("GET", "/api/explorations/a/test-cases-with-code", 200, tt.body)
			c := newTestController(t, srv)

			if _, err := c.OpenExploration(context.Background(), "a"); err != nil {
				t.Fatalf("OpenExploration: %v", err)
			}

			cases, err := c.ShowTestCases(context.Background())
			if err != nil {
				t.Fatalf("ShowTestCases: %v", err)
			}
			if len(cases) != 0 {
				t.Errorf("cases = %d, want 0", len(cases))
			}
			if msg := lastNotification(t, c).Message; msg != "No hay casos de prueba para esta exploración" {
				t.Errorf("message = %q", msg)
			}
			c.View(func(b *view.Bindings) {
				if b.Driver.Container.Visible() {
					t.Error("driver widget should stay hidden")
				}
				if b.Cases.Container.Visible() {
					t.Error("case container should stay hidden")
				}
			})
		})
	}
}

func TestToggleAndCopyCode(t *testing.T) {
	fs, srv := newFakeService(t)
	fs.reply("GET", "/api/explorations/a", 200, explorationA)
	fs.reply("GET", "/api/explorations/a/test-cases-with-code", 200, twoCases)
	clip := &fakeClipboard{}
	c := newTestController(t, srv, func(cfg *Config) { cfg.Clipboard = clip })

	if _, err := c.OpenExploration(context.Background(), "a"); err != nil {
		t.Fatalf("OpenExploration: %v", err)
	}
	if _, err := c.ShowTestCases(context.Background()); err != nil {
		t.Fatalf("ShowTestCases: %v", err)
	}
	calls := fs.callCount("GET", "/api/explorations/a/test-cases-with-code")

	visible, err := c.ToggleCode(2)
	if err != nil || !visible {
		t.Fatalf("ToggleCode(2) = %v, %v; want true, nil", visible, err)
	}
	c.View(func(b *view.Bindings) {
		if label := b.Cases.Card(2).ViewLabel; label != view.LabelHideCode {
			t.Errorf("label = %q, want %q", label, view.LabelHideCode)
		}
	})
	if visible, err = c.ToggleCode(2); err != nil || visible {
		t.Errorf("second ToggleCode(2) = %v, %v; want false, nil", visible, err)
	}

	if _, err := c.ToggleCode(1); !errors.Is(err, core.ErrNoCode) {
		t.Errorf("ToggleCode(1) error = %v, want ErrNoCode", err)
	}
	if n := fs.callCount("GET", "/api/explorations/a/test-cases-with-code"); n != calls {
		t.Errorf("toggle made requests: %d calls, want %d", n, calls)
	}

	if err := c.CopyCode(2); err != nil {
		t.Fatalf("CopyCode(2): %v", err)
	}
	if clip.text != "print('search')" {
		t.Errorf("clipboard = %q", clip.text)
	}
	if msg := lastNotification(t, c).Message; msg != "Código copiado al portapapeles" {
		t.Errorf("message = %q", msg)
	}

	if err := c.CopyCode(1); !errors.Is(err, core.ErrNoCode) {
		t.Errorf("CopyCode(1) error = %v, want ErrNoCode", err)
	}
	if msg := lastNotification(t, c).Message; msg != "No se encontró el código para este test" {
		t.Errorf("message = %q", msg)
	}

	clip.err = errors.New("no display")
	if err := c.CopyCode(2); err == nil {
		t.Error("expected clipboard error")
	}
	if level := lastNotification(t, c).Level; level != view.LevelError {
		t.Errorf("level = %v, want error", level)
	}
}

func TestRenderTestCasesIsIdempotent(t *testing.T) {
	_, srv := newFakeService(t)
	c := newTestController(t, srv)
	cases := []core.TestCase{
		{ID: 1, Title: "One"},
		{ID: 2, Title: "Two", GeneratedCode: &core.GeneratedCode{Code: "x"}},
	}

	c.RenderTestCases(cases)
	var first []view.Card
	c.View(func(b *view.Bindings) {
		for _, card := range b.Cases.Cards {
			cp := *card
			cp.Code = nil
			first = append(first, cp)
		}
	})

	c.RenderTestCases(cases)
	c.View(func(b *view.Bindings) {
		if len(b.Cases.Cards) != len(first) {
			t.Fatalf("cards = %d, want %d", len(b.Cases.Cards), len(first))
		}
		for i, card := range b.Cases.Cards {
			cp := *card
			cp.Code = nil
			if !reflect.DeepEqual(first[i], cp) {
				t.Errorf("card %d = %+v, want %+v", i, cp, first[i])
			}
		}
	})
}

func TestGenerateCodePrimary(t *testing.T) {
	fs, c := withCases(t)
	fs.reply("POST", "/api/generate-simple-code/1", 200, `{"code":"driver.get('https://shop.test')"}`)

	code, err := c.GenerateCode(context.Background(), 1)
	if err != nil {
		t.Fatalf("GenerateCode: %v", err)
	}
	if code != "driver.get('https://shop.test')" {
		t.Errorf("code = %q", code)
	}
	if n := fs.callCount("POST", "/api/generate-code/1"); n != 0 {
		t.Errorf("fallback calls = %d, want 0", n)
	}
	if msg := lastNotification(t, c).Message; msg != "Código simple generado correctamente (modo visual)" {
		t.Errorf("message = %q", msg)
	}

	c.View(func(b *view.Bindings) {
		card := b.Cases.Card(1)
		if card.Actions != view.ActionsViewRun {
			t.Errorf("actions = %v", card.Actions)
		}
		if card.Badge != view.BadgeCodeAvailable {
			t.Errorf("badge = %q", card.Badge)
		}
		if card.Code == nil {
			t.Error("code panel should be attached")
		}
	})
}

func TestGenerateCodeFallbackLeavesSiblingsUnchanged(t *testing.T) {
	fs, c := withCases(t)
	fs.reply("POST", "/api/generate-simple-code/1", 500, `{"detail":"boom"}`)
	fs.reply("POST", "/api/generate-code/1", 200, `{"test_case_id":1,"code":"legacy()"}`)
	before := c.TestCases()[1]

	code, err := c.GenerateCode(context.Background(), 1)
	if err != nil {
		t.Fatalf("GenerateCode: %v", err)
	}
	if code != "legacy()" {
		t.Errorf("code = %q", code)
	}

	if n := fs.callCount("POST", "/api/generate-code/1"); n != 1 {
		t.Errorf("fallback calls = %d, want 1", n)
	}
	primary := fs.body("POST", "/api/generate-simple-code/1", 0)
	secondary := fs.body("POST", "/api/generate-code/1", 0)
	if !reflect.DeepEqual(primary, secondary) {
		t.Errorf("fallback body = %v, want %v", secondary, primary)
	}
	if msg := lastNotification(t, c).Message; msg != "Código generado correctamente (modo estándar)" {
		t.Errorf("message = %q", msg)
	}

	after := c.TestCases()
	if after[0].Code() != "legacy()" {
		t.Errorf("case 1 code = %q", after[0].Code())
	}
	if !reflect.DeepEqual(before, after[1]) {
		t.Errorf("case 2 changed: %+v, want %+v", after[1], before)
	}
	if code := c.Code(2); code != "print('search')" {
		t.Errorf("Code(2) = %q", code)
	}
}

func TestGenerateCodeBothFail(t *testing.T) {
	fs, c := withCases(t)
	fs.reply("POST", "/api/generate-simple-code/1", 500, `{"detail":"primary down"}`)
	fs.reply("POST", "/api/generate-code/1", 503, `{"detail":"legacy down"}`)
	errorsBefore := countLevel(c, view.LevelError)

	if _, err := c.GenerateCode(context.Background(), 1); err == nil {
		t.Fatal("expected error")
	}
	if n := fs.callCount("POST", "/api/generate-code/1"); n != 1 {
		t.Errorf("fallback calls = %d, want 1", n)
	}
	if n := countLevel(c, view.LevelError); n != errorsBefore+1 {
		t.Errorf("error notifications = %d, want exactly one more than %d", n, errorsBefore)
	}
	want := "Error al generar código: Error 500: primary down"
	if msg := lastNotification(t, c).Message; msg != want {
		t.Errorf("message = %q, want %q", msg, want)
	}
	if c.TestCases()[0].HasCode() {
		t.Error("case 1 should still have no code")
	}
}

func TestGenerateCodeUnknownTestCase(t *testing.T) {
	fs, srv := newFakeService(t)
	fs.reply("GET", "/api/explorations/a", 200, explorationA)
	c := newTestController(t, srv)

	if _, err := c.OpenExploration(context.Background(), "a"); err != nil {
		t.Fatalf("OpenExploration: %v", err)
	}

	if _, err := c.GenerateCode(context.Background(), 42); !errors.Is(err, core.ErrTestCaseNotFound) {
		t.Errorf("error = %v, want ErrTestCaseNotFound", err)
	}
	if msg := lastNotification(t, c).Message; msg != "No se encontró el caso de prueba" {
		t.Errorf("message = %q", msg)
	}
	if n := fs.callCount("POST", "/api/generate-simple-code/42"); n != 0 {
		t.Errorf("calls = %d, want 0", n)
	}
}

func TestStaleGenerateCodeChangesNoCard(t *testing.T) {
	fs, c := withCases(t)
	entered, release := fs.block("POST", "/api/generate-simple-code/1", `{"code":"late()"}`)

	var wg sync.WaitGroup
	var slowErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, slowErr = c.GenerateCode(context.Background(), 1)
	}()

	<-entered
	if _, err := c.OpenExploration(context.Background(), "a"); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if _, err := c.ShowTestCases(context.Background()); err != nil {
		t.Fatalf("ShowTestCases: %v", err)
	}
	notesBefore := len(c.Notifications())
	close(release)
	wg.Wait()

	if !errors.Is(slowErr, core.ErrStaleResponse) {
		t.Errorf("slow generate error = %v, want ErrStaleResponse", slowErr)
	}
	if code := c.Code(1); code != "" {
		t.Errorf("Code(1) = %q, want empty", code)
	}
	if c.TestCases()[0].HasCode() {
		t.Error("case 1 should have no code")
	}
	c.View(func(b *view.Bindings) {
		card := b.Cases.Card(1)
		if card.Actions != view.ActionsGenerate || card.Code != nil {
			t.Errorf("card 1 changed: actions=%v code=%v", card.Actions, card.Code)
		}
	})
	if n := len(c.Notifications()); n != notesBefore {
		t.Errorf("notifications = %d, want %d", n, notesBefore)
	}
	if n := fs.callCount("POST", "/api/generate-code/1"); n != 0 {
		t.Errorf("fallback calls = %d, want 0", n)
	}
}
