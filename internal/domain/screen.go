package domain

// ScreenKind identifies which screen is shown.
type ScreenKind string

const (
	ScreenHome    ScreenKind = "home"
	ScreenPalette ScreenKind = "palette"
	ScreenPreview ScreenKind = "preview"
	ScreenTimer   ScreenKind = "timer"
)

// Screen is the closed set of navigation states. Implementations carry the
// per-screen payload.
type Screen interface {
	Kind() ScreenKind
	screen()
}

// DisplayMode selects how the timer text is rendered.
type DisplayMode string

const (
	DisplayMinutesSeconds DisplayMode = "mm:ss"
	DisplayMinutes        DisplayMode = "mm"
)

// Toggle switches between the two display modes.
func (d DisplayMode) Toggle() DisplayMode {
	if d == DisplayMinutes {
		return DisplayMinutesSeconds
	}
	return DisplayMinutes
}

// NoSelection marks a palette grid without a highlighted cell.
const NoSelection = -1

// HomeScreen is the splash screen with the gear.
type HomeScreen struct{}

// PaletteScreen is the color grid. Selected is a palette index or
// NoSelection.
type PaletteScreen struct {
	Selected int
}

// PreviewScreen shows a candidate accent with its rest inversion.
type PreviewScreen struct {
	Candidate Color
}

// TimerScreen shows the running or paused session.
type TimerScreen struct {
	Display DisplayMode
}

func (HomeScreen) Kind() ScreenKind    { return ScreenHome }
func (PaletteScreen) Kind() ScreenKind { return ScreenPalette }
func (PreviewScreen) Kind() ScreenKind { return ScreenPreview }
func (TimerScreen) Kind() ScreenKind   { return ScreenTimer }

func (HomeScreen) screen()    {}
func (PaletteScreen) screen() {}
func (PreviewScreen) screen() {}
func (TimerScreen) screen()   {}

// NewPaletteScreen opens the grid with nothing selected.
func NewPaletteScreen() PaletteScreen {
	return PaletteScreen{Selected: NoSelection}
}

// HasSelection reports whether a cell is highlighted.
func (p PaletteScreen) HasSelection() bool {
	return p.Selected >= 0 && p.Selected < PaletteSize
}

// ActionName identifies a touchable element.
type ActionName string

const (
	ActionNone           ActionName = ""
	ActionGear           ActionName = "gear"
	ActionCancel         ActionName = "cancel"
	ActionConfirm        ActionName = "confirm"
	ActionCell           ActionName = "cell"
	ActionModeButton     ActionName = "mode_button"
	ActionStatusButton   ActionName = "status_button"
	ActionProgressCircle ActionName = "progress_circle"
)

// Action is the result of resolving a tap. Cell is only meaningful for
// ActionCell.
type Action struct {
	Name ActionName
	Cell int
}

// NoAction is returned when a tap hits nothing.
var NoAction = Action{Name: ActionNone}

// CellAction builds the action for palette cell i.
func CellAction(i int) Action {
	return Action{Name: ActionCell, Cell: i}
}
