package panel

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/devicelab-dev/exploration-panel/pkg/core"
	"github.com/devicelab-dev/exploration-panel/pkg/view"
)

func TestNewRequiresService(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("expected error without a service")
	}
}

func TestLoadListRendersRows(t *testing.T) {
	fs, srv := newFakeService(t)
	fs.reply("GET", "/api/explorations", 200, `{"explorations":[`+explorationA+`,`+explorationB+`]}`)
	c := newTestController(t, srv)

	list, err := c.LoadList(context.Background())
	if err != nil {
		t.Fatalf("LoadList: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 explorations, got %d", len(list))
	}

	c.View(func(b *view.Bindings) {
		if b.List.Len() != 2 {
			t.Errorf("rows = %d, want 2", b.List.Len())
		}
		if b.ActivePanel() != view.PanelList {
			t.Errorf("active panel = %v, want list", b.ActivePanel())
		}
		if b.Form.Visible() {
			t.Error("form should be hidden")
		}
		if b.List.Rows[0].Name != "Shop" || b.List.Rows[1].Name != "blog.test" {
			t.Errorf("names = %q, %q", b.List.Rows[0].Name, b.List.Rows[1].Name)
		}
		if b.Overlay.Active() {
			t.Error("overlay should be cleared")
		}
	})
}

func TestLoadListEmpty(t *testing.T) {
	fs, srv := newFakeService(t)
	fs.reply("GET", "/api/explorations", 200, `{"explorations": []}`)
	c := newTestController(t, srv)

	list, err := c.LoadList(context.Background())
	if err != nil {
		t.Fatalf("LoadList: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected no explorations, got %d", len(list))
	}

	note := lastNotification(t, c)
	if note.Level != view.LevelInfo || note.Message != "No hay exploraciones guardadas" {
		t.Errorf("notification = %+v", note)
	}
	c.View(func(b *view.Bindings) {
		if b.ActivePanel() != view.PanelForm {
			t.Errorf("active panel = %v, want form", b.ActivePanel())
		}
	})
}

func TestLoadListError(t *testing.T) {
	fs, srv := newFakeService(t)
	fs.reply("GET", "/api/explorations", 500, `{"detail":"db down"}`)
	c := newTestController(t, srv)

	if _, err := c.LoadList(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if n := fs.callCount("GET", "/api/explorations"); n != 1 {
		t.Errorf("calls = %d, want 1 (no automatic retry)", n)
	}

	note := lastNotification(t, c)
	if note.Level != view.LevelError {
		t.Errorf("level = %v, want error", note.Level)
	}
	want := "Error al cargar las exploraciones guardadas: Error 500: db down"
	if note.Message != want {
		t.Errorf("message = %q, want %q", note.Message, want)
	}
}

func TestLoadListWhere(t *testing.T) {
	fs, srv := newFakeService(t)
	fs.reply("GET", "/api/explorations", 200, `{"explorations":[`+explorationA+`,`+explorationB+`]}`)
	c := newTestController(t, srv)

	list, err := c.LoadListWhere(context.Background(), func(e core.Exploration) (bool, error) {
		return e.HasTestCases(), nil
	})
	if err != nil {
		t.Fatalf("LoadListWhere: %v", err)
	}
	if len(list) != 1 || list[0].ID != "a" {
		t.Errorf("filtered list = %+v", list)
	}

	_, err = c.LoadListWhere(context.Background(), func(core.Exploration) (bool, error) {
		return false, errors.New("bad expression")
	})
	if err == nil || !strings.Contains(err.Error(), "bad expression") {
		t.Errorf("expected filter error, got %v", err)
	}
}

func TestOlderListLoadIsDiscarded(t *testing.T) {
	fs, srv := newFakeService(t)
	entered := make(chan struct{})
	release := make(chan struct{})
	var calls int32
	fs.handle("GET", "/api/explorations", func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(entered)
			<-release
			w.Write([]byte(`{"explorations":[` + explorationA + `,` + explorationB + `]}`))
			return
		}
		w.Write([]byte(`{"explorations":[` + explorationB + `]}`))
	})
	c := newTestController(t, srv)

	var wg sync.WaitGroup
	var slowErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, slowErr = c.LoadList(context.Background())
	}()

	<-entered
	list, err := c.LoadList(context.Background())
	if err != nil {
		t.Fatalf("LoadList: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 exploration from the newer load, got %d", len(list))
	}
	close(release)
	wg.Wait()

	if !errors.Is(slowErr, core.ErrStaleResponse) {
		t.Errorf("older load error = %v, want ErrStaleResponse", slowErr)
	}
	c.View(func(b *view.Bindings) {
		if b.List.Len() != 1 || b.List.Rows[0].ExplorationID != "b" {
			t.Errorf("rows = %+v, want only b", b.List.Rows)
		}
		if b.Overlay.Active() {
			t.Error("overlay should be cleared")
		}
	})
	if got := c.Explorations(); len(got) != 1 {
		t.Errorf("Explorations() = %d, want 1", len(got))
	}
}

func TestDeleteCancelled(t *testing.T) {
	fs, srv := newFakeService(t)
	var asked string
	c := newTestController(t, srv, func(cfg *Config) {
		cfg.Confirmer = ConfirmFunc(func(_ context.Context, q string) bool {
			asked = q
			return false
		})
	})

	err := c.DeleteExploration(context.Background(), "a")
	if !errors.Is(err, core.ErrCancelled) {
		t.Errorf("error = %v, want ErrCancelled", err)
	}
	if !strings.Contains(asked, "eliminar esta exploración") {
		t.Errorf("question = %q", asked)
	}
	if n := fs.callCount("DELETE", "/api/explorations/a"); n != 0 {
		t.Errorf("delete calls = %d, want 0", n)
	}
	if n := len(c.Notifications()); n != 0 {
		t.Errorf("notifications = %d, want 0", n)
	}
}

func TestDeleteRemovesExactlyOneRow(t *testing.T) {
	fs, srv := newFakeService(t)
	fs.reply("GET", "/api/explorations", 200, `{"explorations":[`+explorationA+`,`+explorationB+`]}`)
	fs.reply("DELETE", "/api/explorations/a", 200, `{"status":"success"}`)
	fs.reply("DELETE", "/api/explorations/b", 200, `{"status":"success"}`)
	c := newTestController(t, srv)

	if _, err := c.LoadList(context.Background()); err != nil {
		t.Fatalf("LoadList: %v", err)
	}

	if err := c.DeleteExploration(context.Background(), "a"); err != nil {
		t.Fatalf("delete a: %v", err)
	}
	c.View(func(b *view.Bindings) {
		if b.List.Len() != 1 || b.List.Rows[0].ExplorationID != "b" {
			t.Errorf("rows = %+v, want only b", b.List.Rows)
		}
		if !b.List.Container.Visible() {
			t.Error("list should stay visible")
		}
	})
	if msg := lastNotification(t, c).Message; msg != "Exploración eliminada correctamente" {
		t.Errorf("message = %q", msg)
	}

	if err := c.DeleteExploration(context.Background(), "b"); err != nil {
		t.Fatalf("delete b: %v", err)
	}
	c.View(func(b *view.Bindings) {
		if b.List.Len() != 0 {
			t.Errorf("rows = %d, want 0", b.List.Len())
		}
		if b.List.Container.Visible() {
			t.Error("list should be hidden")
		}
		if !b.Form.Visible() {
			t.Error("form should be shown")
		}
	})
	if msg := lastNotification(t, c).Message; msg != "No hay más exploraciones guardadas" {
		t.Errorf("message = %q", msg)
	}
	if n := len(c.Explorations()); n != 0 {
		t.Errorf("Explorations() = %d, want 0", n)
	}
}

func TestDeleteKeepsRowWithoutSuccess(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"http error", 404, `{"detail":"Exploration not found"}`},
		{"failure status", 200, `{"status":"error","message":"locked"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs, srv := newFakeService(t)
			fs.reply("GET", "/api/explorations", 200, `{"explorations":[`+explorationA+`]}`)
			fs.reply("DELETE", "/api/explorations/a", tt.status, tt.body)
			c := newTestController(t, srv)

			if _, err := c.LoadList(context.Background()); err != nil {
				t.Fatalf("LoadList: %v", err)
			}

			if err := c.DeleteExploration(context.Background(), "a"); err == nil {
				t.Fatal("expected error")
			}
			c.View(func(b *view.Bindings) {
				if b.List.Len() != 1 {
					t.Errorf("rows = %d, want 1", b.List.Len())
				}
			})
			note := lastNotification(t, c)
			if note.Level != view.LevelError {
				t.Errorf("level = %v, want error", note.Level)
			}
			if !strings.HasPrefix(note.Message, "Error al eliminar la exploración: ") {
				t.Errorf("message = %q", note.Message)
			}
		})
	}
}

func TestOpenExplorationActions(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		body     string
		show     bool
		generate bool
	}{
		{"has test cases", "a", explorationA, true, false},
		{"no test cases", "b", explorationB, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs, srv := newFakeService(t)
			fs.reply("GET", "/api/explorations/"+tt.id, 200, tt.body)
			c := newTestController(t, srv)

			e, err := c.OpenExploration(context.Background(), tt.id)
			if err != nil {
				t.Fatalf("OpenExploration: %v", err)
			}
			if e.ID != tt.id {
				t.Errorf("ID = %q, want %q", e.ID, tt.id)
			}

			c.View(func(b *view.Bindings) {
				if b.ActivePanel() != view.PanelDetail {
					t.Errorf("active panel = %v, want detail", b.ActivePanel())
				}
				if b.Detail.ShowBtn.Visible() != tt.show {
					t.Errorf("show button visible = %v, want %v", b.Detail.ShowBtn.Visible(), tt.show)
				}
				if b.Detail.GenerateBtn.Visible() != tt.generate {
					t.Errorf("generate button visible = %v, want %v", b.Detail.GenerateBtn.Visible(), tt.generate)
				}
			})
			if sel := c.Selected(); sel == nil || sel.ID != tt.id {
				t.Errorf("Selected() = %+v", sel)
			}
		})
	}
}

func TestOpenExplorationFillsDetail(t *testing.T) {
	fs, srv := newFakeService(t)
	fs.reply("GET", "/api/explorations/a", 200, explorationA)
	c := newTestController(t, srv)

	if _, err := c.OpenExploration(context.Background(), "a"); err != nil {
		t.Fatalf("OpenExploration: %v", err)
	}

	c.View(func(b *view.Bindings) {
		if b.Detail.Title.Text != "Shop" {
			t.Errorf("title = %q", b.Detail.Title.Text)
		}
		if b.Detail.URL.Text != "https://shop.test" {
			t.Errorf("url = %q", b.Detail.URL.Text)
		}
		if b.Detail.PageCount.Text != "2" {
			t.Errorf("page count = %q", b.Detail.PageCount.Text)
		}
		if b.Detail.Date.Text == "" {
			t.Error("date should be set")
		}
	})
}

func TestOpenExplorationError(t *testing.T) {
	fs, srv := newFakeService(t)
	fs.reply("GET", "/api/explorations/zz", 404, `{"detail":"Exploration not found"}`)
	c := newTestController(t, srv)

	if _, err := c.OpenExploration(context.Background(), "zz"); err == nil {
		t.Fatal("expected error")
	}
	if c.Selected() != nil {
		t.Error("selection should stay empty")
	}
	want := "Error al cargar los detalles de la exploración: Error 404: Exploration not found"
	if msg := lastNotification(t, c).Message; msg != want {
		t.Errorf("message = %q, want %q", msg, want)
	}
}

func TestCloseDetailsClearsSession(t *testing.T) {
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

	c.CloseDetails()

	if c.Selected() != nil {
		t.Error("selection should be cleared")
	}
	if n := len(c.TestCases()); n != 0 {
		t.Errorf("test cases = %d, want 0", n)
	}
	if code := c.Code(2); code != "" {
		t.Errorf("code = %q, want empty", code)
	}
	c.View(func(b *view.Bindings) {
		if b.ActivePanel() != view.PanelList {
			t.Errorf("active panel = %v, want list", b.ActivePanel())
		}
		if b.Cases.Container.Visible() || len(b.Cases.Cards) != 0 {
			t.Error("case container should be empty and hidden")
		}
	})
}

func TestStaleOpenIsDiscarded(t *testing.T) {
	fs, srv := newFakeService(t)
	entered, release := fs.block("GET", "/api/explorations/a", explorationA)
	fs.reply("GET", "/api/explorations/b", 200, explorationB)
	c := newTestController(t, srv)

	var wg sync.WaitGroup
	var slowErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, slowErr = c.OpenExploration(context.Background(), "a")
	}()

	<-entered
	if _, err := c.OpenExploration(context.Background(), "b"); err != nil {
		t.Fatalf("OpenExploration(b): %v", err)
	}
	close(release)
	wg.Wait()

	if !errors.Is(slowErr, core.ErrStaleResponse) {
		t.Errorf("slow open error = %v, want ErrStaleResponse", slowErr)
	}
	if sel := c.Selected(); sel == nil || sel.ID != "b" {
		t.Errorf("Selected() = %+v, want b", sel)
	}
	c.View(func(b *view.Bindings) {
		if b.Detail.Title.Text != "blog.test" {
			t.Errorf("title = %q, want blog.test", b.Detail.Title.Text)
		}
		if b.Overlay.Active() {
			t.Error("overlay should be cleared")
		}
	})
}
