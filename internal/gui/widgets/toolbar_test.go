package widgets

import (
	"testing"

	"fyne.io/fyne/v2/test"
)

func TestToolbarApplyStartsDisabled(t *testing.T) {
	_ = test.NewApp() // shouldn't be needed for test but we get a panic without it
	toolbar := NewToolbar()

	if toolbar.ApplyEnabled() {
		t.Error("Expected Apply to start disabled")
	}
	if !toolbar.saveButton.Disabled() {
		t.Error("Expected Save to start disabled")
	}
	if toolbar.openButton.Disabled() {
		t.Error("Expected Open to start enabled")
	}
}

func TestToolbarSetApplyEnabled(t *testing.T) {
	_ = test.NewApp()
	toolbar := NewToolbar()

	toolbar.SetApplyEnabled(true)
	if !toolbar.ApplyEnabled() {
		t.Error("Expected Apply to be enabled")
	}

	toolbar.SetApplyEnabled(false)
	if toolbar.ApplyEnabled() {
		t.Error("Expected Apply to be disabled")
	}
}

func TestToolbarMetricsDisplay(t *testing.T) {
	_ = test.NewApp()
	toolbar := NewToolbar()

	toolbar.SetMetrics(32.5, 0.9512)
	if got := toolbar.metricsLabel.Text; got != "PSNR: 32.50 dB | SSIM: 0.9512" {
		t.Errorf("Unexpected metrics text: %q", got)
	}

	toolbar.SetMetrics(0, 0)
	if got := toolbar.metricsLabel.Text; got != "PSNR: -- | SSIM: --" {
		t.Errorf("Expected placeholder metrics text, got %q", got)
	}
}

func TestToolbarHandlersFire(t *testing.T) {
	_ = test.NewApp()
	toolbar := NewToolbar()

	var opened, saved, applied bool
	toolbar.SetOpenHandler(func() { opened = true })
	toolbar.SetSaveHandler(func() { saved = true })
	toolbar.SetApplyHandler(func() { applied = true })

	toolbar.onOpenClicked()
	toolbar.onSaveClicked()
	toolbar.onApplyClicked()

	if !opened || !saved || !applied {
		t.Errorf("Expected all handlers to fire: open=%v save=%v apply=%v", opened, saved, applied)
	}
}
