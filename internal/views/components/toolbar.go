package components

import (
	"fmt"
	"strconv"
	"strings"

	"filter-bench/internal/filters"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Toolbar holds the file actions, the filter selection and the strength controls.
type Toolbar struct {
	container      *fyne.Container
	loadButton     *widget.Button
	applyButton    *widget.Button
	revertButton   *widget.Button
	saveButton     *widget.Button
	filterSelect   *widget.Select
	strengthSlider *widget.Slider
	strengthEntry  *widget.Entry
	redEntry       *widget.Entry
	greenEntry     *widget.Entry
	blueEntry      *widget.Entry

	// Event handlers
	loadHandler         func()
	applyHandler        func()
	revertHandler       func()
	saveHandler         func()
	filterChangeHandler func(filters.Kind)

	// State
	kinds       []filters.Kind
	byName      map[string]filters.Kind
	currentKind filters.Kind
	strength    int
	syncing     bool
	imageLoaded bool
	busy        bool
}

// NewToolbar builds a toolbar offering kinds, with initial preselected.
func NewToolbar(kinds []filters.Kind, initial filters.Kind) *Toolbar {
	t := &Toolbar{
		kinds:  kinds,
		byName: make(map[string]filters.Kind, len(kinds)),
	}
	t.createComponents()
	t.buildLayout()
	t.setupEventHandlers()
	t.SetCurrentFilter(initial)
	t.updateButtons()
	return t
}

func (t *Toolbar) createComponents() {
	t.loadButton = widget.NewButton("Load Image", nil)
	t.loadButton.Importance = widget.HighImportance

	t.applyButton = widget.NewButton("Apply", nil)
	t.applyButton.Importance = widget.HighImportance

	t.revertButton = widget.NewButton("Revert", nil)
	t.saveButton = widget.NewButton("Save Result", nil)

	names := make([]string, 0, len(t.kinds))
	for _, k := range t.kinds {
		names = append(names, k.DisplayName())
		t.byName[k.DisplayName()] = k
	}
	t.filterSelect = widget.NewSelect(names, nil)

	t.strengthSlider = widget.NewSlider(filters.MinStrength, filters.MaxStrength)
	t.strengthSlider.Step = 1

	t.strengthEntry = widget.NewEntry()
	t.strengthEntry.Validator = func(s string) error {
		_, err := parseStrength(s)
		return err
	}

	t.redEntry = newChannelEntry("R")
	t.greenEntry = newChannelEntry("G")
	t.blueEntry = newChannelEntry("B")
}

func newChannelEntry(placeholder string) *widget.Entry {
	e := widget.NewEntry()
	e.SetPlaceHolder(placeholder)
	return e
}

func (t *Toolbar) buildLayout() {
	actionSection := container.NewHBox(
		t.loadButton,
		widget.NewSeparator(),
		t.saveButton,
	)

	filterSection := container.NewVBox(
		widget.NewLabel("Filter"),
		t.filterSelect,
	)

	strengthSection := container.NewVBox(
		widget.NewLabel("Strength"),
		container.NewBorder(nil, nil, nil, container.NewGridWrap(fyne.NewSize(90, 36), t.strengthEntry), t.strengthSlider),
	)

	colorSection := container.NewVBox(
		widget.NewLabel("Edge colour (R, G, B)"),
		container.NewGridWithColumns(3, t.redEntry, t.greenEntry, t.blueEntry),
	)

	processSection := container.NewVBox(
		widget.NewLabel("Processing"),
		container.NewHBox(t.applyButton, t.revertButton),
	)

	t.container = container.NewVBox(
		container.NewHBox(
			actionSection,
			widget.NewSeparator(),
			filterSection,
			widget.NewSeparator(),
			colorSection,
			widget.NewSeparator(),
			processSection,
		),
		strengthSection,
	)
}

func (t *Toolbar) setupEventHandlers() {
	t.loadButton.OnTapped = func() {
		if t.loadHandler != nil {
			t.loadHandler()
		}
	}

	t.applyButton.OnTapped = func() {
		if t.applyHandler != nil {
			t.applyHandler()
		}
	}

	t.revertButton.OnTapped = func() {
		if t.revertHandler != nil {
			t.revertHandler()
		}
	}

	t.saveButton.OnTapped = func() {
		if t.saveHandler != nil {
			t.saveHandler()
		}
	}

	t.filterSelect.OnChanged = func(name string) {
		kind, ok := t.byName[name]
		if !ok {
			return
		}
		t.currentKind = kind
		t.SetStrength(kind.DefaultStrength())
		if t.filterChangeHandler != nil {
			t.filterChangeHandler(kind)
		}
	}

	// The slider and the entry mirror each other; syncing stops the echo.
	t.strengthSlider.OnChanged = func(v float64) {
		if t.syncing {
			return
		}
		t.syncing = true
		defer func() { t.syncing = false }()

		t.strength = int(v)
		t.strengthEntry.SetText(strconv.Itoa(t.strength))
	}

	t.strengthEntry.OnChanged = func(s string) {
		if t.syncing {
			return
		}
		v, err := parseStrength(s)
		if err != nil {
			return
		}
		t.syncing = true
		defer func() { t.syncing = false }()

		t.strength = v
		t.strengthSlider.SetValue(float64(v))
	}
}

func parseStrength(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("strength must be a whole number")
	}
	if v < filters.MinStrength || v > filters.MaxStrength {
		return 0, fmt.Errorf("strength must be between %d and %d", filters.MinStrength, filters.MaxStrength)
	}
	return v, nil
}

// Event handler setters

func (t *Toolbar) SetLoadHandler(handler func()) {
	t.loadHandler = handler
}

func (t *Toolbar) SetApplyHandler(handler func()) {
	t.applyHandler = handler
}

func (t *Toolbar) SetRevertHandler(handler func()) {
	t.revertHandler = handler
}

func (t *Toolbar) SetSaveHandler(handler func()) {
	t.saveHandler = handler
}

func (t *Toolbar) SetFilterChangeHandler(handler func(filters.Kind)) {
	t.filterChangeHandler = handler
}

// State management methods

// SetCurrentFilter selects kind and resets the strength to its default.
func (t *Toolbar) SetCurrentFilter(kind filters.Kind) {
	if _, ok := t.byName[kind.DisplayName()]; !ok {
		if len(t.kinds) == 0 {
			return
		}
		kind = t.kinds[0]
	}
	t.filterSelect.SetSelected(kind.DisplayName())
	t.currentKind = kind
	t.SetStrength(kind.DefaultStrength())
}

func (t *Toolbar) CurrentFilter() filters.Kind {
	return t.currentKind
}

// SetStrength moves both strength controls to v, clamped to the valid range.
func (t *Toolbar) SetStrength(v int) {
	if v < filters.MinStrength {
		v = filters.MinStrength
	} else if v > filters.MaxStrength {
		v = filters.MaxStrength
	}

	t.syncing = true
	defer func() { t.syncing = false }()

	t.strength = v
	t.strengthSlider.SetValue(float64(v))
	t.strengthEntry.SetText(strconv.Itoa(v))
}

// Strength is the value the slider and entry last agreed on.
func (t *Toolbar) Strength() int {
	return t.strength
}

// StrengthValue returns the strength typed into the entry, or the entry's
// validation error when the text is not a number in range.
func (t *Toolbar) StrengthValue() (int, error) {
	return parseStrength(t.strengthEntry.Text)
}

// Params returns the edge colour typed into the R, G and B fields. All three
// empty yields nil so the filter falls back to its default colour.
func (t *Toolbar) Params() ([]any, error) {
	fields := []struct {
		name  string
		entry *widget.Entry
	}{
		{"red", t.redEntry},
		{"green", t.greenEntry},
		{"blue", t.blueEntry},
	}

	params := make([]any, 0, len(fields))
	empty := 0
	for _, f := range fields {
		text := strings.TrimSpace(f.entry.Text)
		if text == "" {
			empty++
			continue
		}
		v, err := strconv.Atoi(text)
		if err != nil {
			return nil, fmt.Errorf("%s value %q is not a number", f.name, text)
		}
		params = append(params, v)
	}

	switch empty {
	case len(fields):
		return nil, nil
	case 0:
		return params, nil
	default:
		return nil, fmt.Errorf("enter all of red, green and blue or leave them empty")
	}
}

// SetColor fills the R, G and B fields.
func (t *Toolbar) SetColor(r, g, b int) {
	t.redEntry.SetText(strconv.Itoa(r))
	t.greenEntry.SetText(strconv.Itoa(g))
	t.blueEntry.SetText(strconv.Itoa(b))
}

// SetImageLoaded enables the image-dependent actions.
func (t *Toolbar) SetImageLoaded(loaded bool) {
	t.imageLoaded = loaded
	t.updateButtons()
}

// SetBusy disables every action while an operation runs.
func (t *Toolbar) SetBusy(busy bool) {
	t.busy = busy
	t.updateButtons()
}

func (t *Toolbar) IsBusy() bool {
	return t.busy
}

func (t *Toolbar) updateButtons() {
	setEnabled(t.loadButton, !t.busy)
	setEnabled(t.filterSelect, !t.busy)
	for _, b := range []*widget.Button{t.applyButton, t.revertButton, t.saveButton} {
		setEnabled(b, t.imageLoaded && !t.busy)
	}
}

func setEnabled(w fyne.Disableable, enabled bool) {
	if enabled {
		w.Enable()
	} else {
		w.Disable()
	}
}

func (t *Toolbar) GetContainer() *fyne.Container {
	return t.container
}
