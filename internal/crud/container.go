package crud

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/hannan/internal/crud/viewstate"
	"github.com/mamadbah2/hannan/internal/domain/models"
	"github.com/mamadbah2/hannan/internal/domain/modules"
)

// ToastDuration is how long a success or error message stays visible.
const ToastDuration = 5 * time.Second

// Mode is the state of one module tab.
type Mode int

const (
	ModeIdle Mode = iota
	ModeShowingForm
)

// TabState is the transient UI state of one module.
type TabState struct {
	Mode     Mode
	Editing  models.Record
	Selected models.Record
	Form     *Form
}

// Toast is a transient message.
type Toast struct {
	Message string
	Error   bool
	Expires time.Time
}

// Services resolves the remote services of a module. photos may be nil.
type Services func(module string) (DataService, PhotoUploader)

// ModuleView holds what the presenter last delivered for one module.
type ModuleView struct {
	container *Container
	records   []models.Record
	stats     *models.Stats
}

var _ RecordView = (*ModuleView)(nil)

func (v *ModuleView) DisplayRecords(records []models.Record) {
	v.records = records
}

func (v *ModuleView) ShowError(message string) {
	v.container.setToast(message, true)
}

func (v *ModuleView) ShowSuccess(message string) {
	v.container.setToast(message, false)
}

func (v *ModuleView) DisplayStats(stats models.Stats) {
	v.stats = &stats
}

// Container owns the loaded records of every module and the project/tab
// state machine around them. It is not safe for concurrent use.
type Container struct {
	presenters map[string]*Presenter
	views      map[string]*ModuleView
	tabs       map[string]*TabState
	state      viewstate.ViewState
	kv         viewstate.KV
	toast      *Toast
	logger     *zap.Logger
	now        func() time.Time
}

// NewContainer builds presenters and views for every module. kv may be nil
// when view state should not persist.
func NewContainer(services Services, kv viewstate.KV, logger *zap.Logger) *Container {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Container{
		presenters: make(map[string]*Presenter),
		views:      make(map[string]*ModuleView),
		tabs:       make(map[string]*TabState),
		state:      viewstate.ViewState{Tabs: map[string]string{}},
		kv:         kv,
		logger:     logger,
		now:        time.Now,
	}
	for _, schema := range modules.All() {
		view := &ModuleView{container: c}
		data, photos := services(schema.Module)
		c.views[schema.Module] = view
		c.presenters[schema.Module] = NewPresenter(schema, view, data, photos, logger.Named(schema.Module))
		c.tabs[schema.Module] = &TabState{}
	}
	return c
}

// Open restores the remembered project and tab and loads the active tab.
func (c *Container) Open(ctx context.Context) {
	if c.kv != nil {
		state, err := viewstate.Load(c.kv)
		if err != nil {
			c.logger.Warn("view state unreadable, using defaults", zap.Error(err))
		} else {
			c.state = state
		}
	}
	if !validProject(c.state.Project) {
		c.state.Project = modules.ProjectBreeding
	}
	if !validTab(c.state.Project, c.state.Tab(c.state.Project)) {
		c.state.Tabs[c.state.Project] = modules.ForProject(c.state.Project)[0].Module
	}
	c.load(ctx)
}

func validProject(project string) bool {
	return len(modules.ForProject(project)) > 0
}

func validTab(project, tab string) bool {
	for _, s := range modules.ForProject(project) {
		if s.Module == tab {
			return true
		}
	}
	return false
}

// Project returns the active project.
func (c *Container) Project() string {
	return c.state.Project
}

// Tab returns the active module of the active project.
func (c *Container) Tab() string {
	return c.state.Tab(c.state.Project)
}

// Tabs lists the modules of the active project.
func (c *Container) Tabs() []string {
	var out []string
	for _, s := range modules.ForProject(c.state.Project) {
		out = append(out, s.Module)
	}
	return out
}

// Presenter returns the presenter of a module.
func (c *Container) Presenter(module string) *Presenter {
	return c.presenters[module]
}

// Records returns the last loaded list of a module.
func (c *Container) Records(module string) []models.Record {
	if v, ok := c.views[module]; ok {
		return v.records
	}
	return nil
}

// Stats returns the last loaded stats of a module, if any.
func (c *Container) Stats(module string) (models.Stats, bool) {
	if v, ok := c.views[module]; ok && v.stats != nil {
		return *v.stats, true
	}
	return models.Stats{}, false
}

// TabState returns a copy of a module's transient state.
func (c *Container) TabState(module string) TabState {
	if t, ok := c.tabs[module]; ok {
		return *t
	}
	return TabState{}
}

func (c *Container) active() *TabState {
	return c.tabs[c.Tab()]
}

func (c *Container) schema() models.Schema {
	return c.presenters[c.Tab()].Schema()
}

// AddNew opens an empty form on the active tab.
func (c *Container) AddNew() *Form {
	t := c.active()
	t.Mode = ModeShowingForm
	t.Editing = nil
	t.Form = NewForm(c.schema(), nil)
	c.restrict(t.Form)
	return t.Form
}

// Edit opens a form seeded from rec on the active tab.
func (c *Container) Edit(rec models.Record) *Form {
	t := c.active()
	t.Mode = ModeShowingForm
	t.Editing = rec
	t.Form = NewForm(c.schema(), rec)
	c.restrict(t.Form)
	return t.Form
}

// restrict limits the form's goat reference fields to the loaded goats.
func (c *Container) restrict(form *Form) {
	for _, f := range form.Schema().Fields {
		if f.Kind == models.KindRef && f.Ref == modules.Goats {
			form.Restrict(f.Name, c.ReferenceOptions(f))
		}
	}
}

// SetField updates the open form of the active tab. A rejected value is
// also shown as an error toast.
func (c *Container) SetField(name, value string) error {
	form := c.Form()
	if form == nil {
		return errors.New("no form is open")
	}
	if err := form.Set(name, value); err != nil {
		c.setToast(err.Error(), true)
		return err
	}
	return nil
}

// Select marks rec for the details view.
func (c *Container) Select(rec models.Record) {
	c.active().Selected = rec
}

// Form returns the open form of the active tab, or nil.
func (c *Container) Form() *Form {
	return c.active().Form
}

// Submit sends the active form through the presenter. photo, when given, is
// uploaded after the record write. A successful write returns the tab to idle.
func (c *Container) Submit(ctx context.Context, photo *Photo) (models.WriteOutcome, error) {
	form := c.Form()
	if form == nil {
		return models.WriteOutcome{}, errors.New("no form is open")
	}
	presenter := c.presenters[c.Tab()]

	var out models.WriteOutcome
	err := form.Submit(ctx, func(ctx context.Context, rec models.Record) error {
		switch {
		case form.Editing() && photo != nil:
			out = presenter.UpdateRecordWithPhoto(ctx, form.EditingID(), rec, photo)
		case form.Editing():
			out = models.WriteOutcome{Primary: presenter.UpdateRecord(ctx, form.EditingID(), rec)}
		case photo != nil:
			out = presenter.CreateRecordWithPhoto(ctx, rec, photo)
		default:
			out = models.WriteOutcome{Primary: presenter.CreateRecord(ctx, rec)}
		}
		if !out.Primary.Success {
			return errors.New(out.Primary.Message)
		}
		return nil
	})
	if err != nil {
		var missing *MissingFieldsError
		if errors.As(err, &missing) {
			c.setToast(fmt.Sprintf("Please fill in: %s", joinLabels(c.schema(), missing.Fields)), true)
		}
		return out, err
	}
	c.SubmitSucceeded()
	return out, nil
}

// SubmitSucceeded returns the active tab to idle.
func (c *Container) SubmitSucceeded() {
	t := c.active()
	t.Mode = ModeIdle
	t.Editing = nil
	t.Selected = nil
	t.Form = nil
}

// Cancel closes the active form without saving.
func (c *Container) Cancel() {
	t := c.active()
	if t.Form != nil {
		t.Form.Cancel(nil)
	}
	t.Mode = ModeIdle
	t.Editing = nil
	t.Form = nil
}

// Delete removes a row of the active tab after confirmation.
func (c *Container) Delete(ctx context.Context, confirm Confirmer, id string) bool {
	presenter := c.presenters[c.Tab()]
	return DeleteRow(ctx, confirm, c.schema(), id, func(ctx context.Context, id string) {
		presenter.DeleteRecord(ctx, id)
	})
}

// SwitchTab activates another module of the current project.
func (c *Container) SwitchTab(ctx context.Context, tab string) error {
	if !validTab(c.state.Project, tab) {
		return fmt.Errorf("%s is not a tab of %s", tab, c.state.Project)
	}
	c.state.Tabs[c.state.Project] = tab
	c.activate(ctx)
	return nil
}

// SwitchProject activates another project and its remembered tab.
func (c *Container) SwitchProject(ctx context.Context, project string) error {
	if !validProject(project) {
		return fmt.Errorf("unknown project %s", project)
	}
	c.state.Project = project
	if !validTab(project, c.state.Tab(project)) {
		c.state.Tabs[project] = modules.ForProject(project)[0].Module
	}
	c.activate(ctx)
	return nil
}

// Focus activates the project and tab that own module.
func (c *Container) Focus(ctx context.Context, module string) error {
	schema, ok := modules.Lookup(module)
	if !ok {
		return fmt.Errorf("unknown module %s", module)
	}
	c.state.Project = schema.Project
	c.state.Tabs[schema.Project] = module
	c.activate(ctx)
	return nil
}

// activate resets every module's transient state, persists the view state
// and loads the newly active tab.
func (c *Container) activate(ctx context.Context) {
	for _, t := range c.tabs {
		*t = TabState{}
	}
	if c.kv != nil {
		if err := viewstate.Save(c.kv, c.state); err != nil {
			c.logger.Warn("failed to save view state", zap.Error(err))
		}
	}
	c.load(ctx)
}

// load fetches the active tab, plus the goat list when the tab's form
// references goats.
func (c *Container) load(ctx context.Context) {
	tab := c.Tab()
	c.presenters[tab].LoadAllRecords(ctx)
	if tab != modules.Goats && referencesGoats(c.schema()) {
		c.presenters[modules.Goats].LoadAllRecords(ctx)
	}
}

func referencesGoats(schema models.Schema) bool {
	for _, f := range schema.Fields {
		if f.Kind == models.KindRef && f.Ref == modules.Goats {
			return true
		}
	}
	return false
}

// ReferenceOptions returns the loaded goats selectable for a reference field.
func (c *Container) ReferenceOptions(field models.Field) []string {
	return ReferenceOptions(field, c.Records(modules.Goats))
}

func (c *Container) setToast(message string, isError bool) {
	c.toast = &Toast{Message: message, Error: isError, Expires: c.now().Add(ToastDuration)}
}

// Toast returns the current message until it expires.
func (c *Container) Toast() (Toast, bool) {
	if c.toast == nil || !c.now().Before(c.toast.Expires) {
		return Toast{}, false
	}
	return *c.toast, true
}

func joinLabels(schema models.Schema, names []string) string {
	labels := make([]string, 0, len(names))
	for _, name := range names {
		if f, ok := schema.Field(name); ok {
			labels = append(labels, f.Label)
			continue
		}
		labels = append(labels, name)
	}
	return strings.Join(labels, ", ")
}
