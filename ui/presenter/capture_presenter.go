package presenter

// CaptureModel provides enabled state access.
type CaptureModel interface {
	Enabled() bool
	SetEnabled(bool) bool
}

// DetectionStore is the part of the detection model cleared on disable.
type DetectionStore interface {
	Clear()
}

// CaptureView updates UI elements affected by detection toggling.
type CaptureView interface {
	PreviewReset()
	SetStateLabel(string)
}

// CapturePresenter owns presentation logic for pausing and resuming line
// detection. The capture source keeps running while detection is paused.
type CapturePresenter struct {
	model     CaptureModel
	detection DetectionStore
	view      CaptureView
}

func NewCapturePresenter(model CaptureModel, detection DetectionStore, view CaptureView) *CapturePresenter {
	return &CapturePresenter{model: model, detection: detection, view: view}
}

// Enable resumes detection. Idempotent.
func (c *CapturePresenter) Enable() {
	if c == nil || c.model == nil || c.view == nil {
		return
	}
	if !c.model.SetEnabled(true) {
		return
	}
	c.view.SetStateLabel("Detection: on")
}

// Disable pauses detection, dropping the last result and resetting the preview. Idempotent.
func (c *CapturePresenter) Disable() {
	if c == nil || c.model == nil || c.view == nil {
		return
	}
	if !c.model.SetEnabled(false) {
		return
	}
	if c.detection != nil {
		c.detection.Clear()
	}
	c.view.PreviewReset()
	c.view.SetStateLabel("Detection: paused")
}

// Toggle flips enabled state delegating to Enable/Disable.
func (c *CapturePresenter) Toggle() {
	if c == nil || c.model == nil {
		return
	}
	if c.model.Enabled() {
		c.Disable()
		return
	}
	c.Enable()
}
