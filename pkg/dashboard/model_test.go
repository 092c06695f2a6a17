package dashboard

import (
	"log/slog"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/110782829/moomoo-chatgpt-trader/internal/api"
	"github.com/110782829/moomoo-chatgpt-trader/internal/models"
	"github.com/110782829/moomoo-chatgpt-trader/internal/settings"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	st, err := settings.Load(t.TempDir())
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	m := New(api.New(""), st, t.TempDir(), nil, nil, slog.New(slog.DiscardHandler))
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m.View()
	return m
}

func click(m *Model, x, y int) {
	m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft, X: x, Y: y})
	m.View()
}

func keyPress(m *Model, key string) {
	var msg tea.KeyMsg
	switch key {
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	m.Update(msg)
	m.View()
}

func TestPanelKeys(t *testing.T) {
	m := newTestModel(t)

	keyPress(m, "2")
	if m.active != PanelRisk {
		t.Fatalf("panel = %v, want Risk", m.active)
	}
	keyPress(m, "l")
	if m.active != PanelBacktest {
		t.Errorf("panel = %v, want Backtest", m.active)
	}
	keyPress(m, "h")
	keyPress(m, "h")
	if m.active != PanelConnection {
		t.Errorf("panel = %v, want Connection", m.active)
	}
}

func TestTabClick(t *testing.T) {
	m := newTestModel(t)

	region := m.mouse.HitMap.Lookup("tab:3")
	if region == nil {
		t.Fatal("tab region not registered")
	}
	click(m, region.Rect.X, region.Rect.Y)
	if m.active != PanelActivity {
		t.Errorf("panel = %v, want Activity", m.active)
	}
}

func TestEnvDropdownClickFlow(t *testing.T) {
	m := newTestModel(t)
	if m.tradeEnv != models.EnvSimulate {
		t.Fatalf("initial env = %q", m.tradeEnv)
	}

	region := m.mouse.HitMap.Lookup("sel:env")
	if region == nil {
		t.Fatal("env trigger not registered")
	}
	click(m, region.Rect.X, region.Rect.Y)
	if !m.envSel.IsOpen() {
		t.Fatal("env dropdown did not open on trigger click")
	}

	// Second row of the overlay is REAL.
	p := m.envSel.Placement()
	click(m, p.Left+1, p.Top+2)
	if m.envSel.IsOpen() {
		t.Error("dropdown still open after row click")
	}
	if m.tradeEnv != models.EnvReal {
		t.Errorf("env = %q, want REAL", m.tradeEnv)
	}
}

func TestEnvDropdownOutsideClickKeepsValue(t *testing.T) {
	m := newTestModel(t)

	region := m.mouse.HitMap.Lookup("sel:env")
	click(m, region.Rect.X, region.Rect.Y)
	if !m.envSel.IsOpen() {
		t.Fatal("dropdown did not open")
	}

	click(m, 90, 28)
	if m.envSel.IsOpen() {
		t.Error("dropdown still open after outside click")
	}
	if m.tradeEnv != models.EnvSimulate {
		t.Errorf("env changed to %q on dismissal", m.tradeEnv)
	}
}

func TestEnvDropdownEscape(t *testing.T) {
	m := newTestModel(t)

	region := m.mouse.HitMap.Lookup("sel:env")
	click(m, region.Rect.X, region.Rect.Y)
	keyPress(m, "esc")
	if m.envSel.IsOpen() {
		t.Error("dropdown still open after esc")
	}
}

func TestTriggerClickIsPureToggle(t *testing.T) {
	m := newTestModel(t)

	region := m.mouse.HitMap.Lookup("sel:env")
	click(m, region.Rect.X, region.Rect.Y)
	click(m, region.Rect.X, region.Rect.Y)
	if m.envSel.IsOpen() {
		t.Error("second trigger click should close, not reopen")
	}
}

func TestSiblingTriggerSwitchesDropdown(t *testing.T) {
	m := newTestModel(t)

	env := m.mouse.HitMap.Lookup("sel:env")
	acct := m.mouse.HitMap.Lookup("sel:account")
	click(m, env.Rect.X, env.Rect.Y)
	click(m, acct.Rect.X, acct.Rect.Y)
	if m.envSel.IsOpen() {
		t.Error("env dropdown survived a sibling trigger click")
	}
	if !m.accountSel.IsOpen() {
		t.Error("account dropdown did not open")
	}
}

func TestPanelSwitchDismissesOverlay(t *testing.T) {
	m := newTestModel(t)

	region := m.mouse.HitMap.Lookup("sel:env")
	click(m, region.Rect.X, region.Rect.Y)
	keyPress(m, "2") // swallowed while the overlay is open
	if m.active != PanelConnection {
		t.Fatal("panel switched while overlay open")
	}
	keyPress(m, "esc")
	keyPress(m, "2")
	if m.active != PanelRisk {
		t.Errorf("panel = %v, want Risk", m.active)
	}
	if m.envSel.IsOpen() {
		t.Error("overlay open after panel switch")
	}
}

func TestSymbolComboboxTypeAndCommit(t *testing.T) {
	m := newTestModel(t)
	m.symbolPool = []string{"AAPL", "TSLA", "BABA"}

	keyPress(m, "3")
	region := m.mouse.HitMap.Lookup("cbx:symbol")
	if region == nil {
		t.Fatal("symbol trigger not registered")
	}
	click(m, region.Rect.X, region.Rect.Y)
	if !m.symbolBox.IsOpen() {
		t.Fatal("combobox did not open")
	}

	keyPress(m, "t")
	keyPress(m, "s")
	if got := m.symbolBox.Query(); got != "ts" {
		t.Fatalf("query = %q", got)
	}
	keyPress(m, "enter")
	if m.symbolBox.IsOpen() {
		t.Error("combobox still open after enter")
	}
	if m.symbol != "TSLA" {
		t.Errorf("symbol = %q, want TSLA", m.symbol)
	}
}

func TestFocusRingEnterOpensDropdown(t *testing.T) {
	m := newTestModel(t)

	for m.focusID() != "sel:env" {
		keyPress(m, "tab")
	}
	keyPress(m, "enter")
	if !m.envSel.IsOpen() {
		t.Error("enter on focused trigger did not open the dropdown")
	}
}

func TestAccountsMsgPopulatesDropdown(t *testing.T) {
	m := newTestModel(t)

	m.Update(accountsMsg{accounts: []models.Account{
		{ID: "111", Env: models.EnvSimulate, AccType: "CASH"},
		{ID: "222", Env: models.EnvReal, AccType: "MARGIN"},
	}})
	if len(m.accountSel.Options()) != 2 {
		t.Fatalf("options = %d, want 2", len(m.accountSel.Options()))
	}
	if m.accountID != "111" {
		t.Errorf("accountID = %q, want first account auto-picked", m.accountID)
	}
}

func TestStatusToast(t *testing.T) {
	m := newTestModel(t)

	cmd := m.setStatus("hello", false)
	if cmd == nil {
		t.Fatal("setStatus returned no clear command")
	}
	if m.status != "hello" {
		t.Fatalf("status = %q", m.status)
	}
	m.Update(clearStatusMsg{})
	if m.status != "" {
		t.Errorf("status = %q after clear", m.status)
	}
}

func TestActivityFeedCap(t *testing.T) {
	m := newTestModel(t)

	for i := 0; i < activityKeep+50; i++ {
		m.appendActivity(models.ActivityItem{Kind: "order", Message: "m"})
	}
	if len(m.activity) != activityKeep {
		t.Errorf("feed = %d items, want %d", len(m.activity), activityKeep)
	}
}

func TestResizeReachesOpenOverlay(t *testing.T) {
	m := newTestModel(t)

	region := m.mouse.HitMap.Lookup("sel:env")
	click(m, region.Rect.X, region.Rect.Y)
	before := m.envSel.Placement()

	m.Update(tea.WindowSizeMsg{Width: region.Rect.X + 4, Height: 30})
	after := m.envSel.Placement()
	if after.Left >= before.Left {
		t.Errorf("placement did not shift left on shrink: before %+v after %+v", before, after)
	}
}
