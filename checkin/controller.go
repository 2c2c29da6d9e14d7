package checkin

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jrsteele09/gym-checkin/api"
	"github.com/jrsteele09/gym-checkin/athletes"
	"github.com/jrsteele09/gym-checkin/checkins"
	"github.com/jrsteele09/gym-checkin/internal/errors"
	"github.com/jrsteele09/gym-checkin/kvstore"
	"github.com/jrsteele09/gym-checkin/trainingsessions"
	"github.com/rs/zerolog/log"
)

const (
	DefaultReloadDelay = 1500 * time.Millisecond

	MsgNoAthletes = "No athletes are linked to this phone number yet. Register a new athlete or add one with a PIN."

	MsgNoSelection        = "Select at least one athlete to check in."
	MsgNoActiveSession    = "No training session is open for check-in right now."
	MsgPINNotAcknowledged = "Write down the athlete PIN and confirm it before continuing."
)

// Backend is the part of the REST API the kiosk uses.
type Backend interface {
	CurrentTrainingSession(ctx context.Context) (*trainingsessions.TrainingSession, error)
	PhoneAthletes(ctx context.Context, phone string) ([]athletes.Association, error)
	CreatePhoneAthlete(ctx context.Context, phone, name string) (*athletes.Association, error)
	AddPhoneAthlete(ctx context.Context, phone, pin string) (*athletes.Association, error)
	RemovePhoneAthlete(ctx context.Context, phone string, athleteID int) error
	CreateCheckIn(ctx context.Context, req checkins.Request) (*checkins.CheckIn, error)
}

var _ Backend = (*api.Client)(nil)

// Controller is the kiosk check-in state machine. Network calls run without
// the lock held; state changes after a call are dropped once Close has been
// called.
type Controller struct {
	backend     Backend
	store       kvstore.Store
	reloadDelay time.Duration

	mu           sync.Mutex
	state        State
	phone        string
	associations []athletes.Association
	selected     map[int]bool
	pendingPIN   *athletes.Association
	reloadTimer  *time.Timer
	generation   int // bumped on reset so stale reloads are ignored

	cancelled atomic.Bool
}

type Option func(*Controller)

// WithReloadDelay sets the pause between a batch check-in and the list
// reload. Zero reloads before SubmitCheckIn returns.
func WithReloadDelay(d time.Duration) Option {
	return func(c *Controller) {
		c.reloadDelay = d
	}
}

func NewController(backend Backend, store kvstore.Store, opts ...Option) *Controller {
	c := &Controller{
		backend:     backend,
		store:       store,
		reloadDelay: DefaultReloadDelay,
		selected:    make(map[int]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Phone is the accepted phone number, empty in StatePhone.
func (c *Controller) Phone() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phone
}

// SavedPhone is the last accepted phone, used to prefill the phone input.
func (c *Controller) SavedPhone(ctx context.Context) string {
	return kvstore.GetString(ctx, c.store, kvstore.KeyAthletePhone)
}

// Associations returns the athletes linked to the phone, in backend order.
func (c *Controller) Associations() []athletes.Association {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]athletes.Association(nil), c.associations...)
}

// Notice is the informational message for the current screen, if any.
func (c *Controller) Notice() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateAthletes && len(c.associations) == 0 {
		return MsgNoAthletes
	}
	return ""
}

// Selected returns the selected athlete ids in list order.
func (c *Controller) Selected() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedLocked()
}

func (c *Controller) IsSelected(athleteID int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected[athleteID]
}

// PendingPIN is the athlete just created whose PIN has not been
// acknowledged yet.
func (c *Controller) PendingPIN() (athletes.Association, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pendingPIN == nil {
		return athletes.Association{}, false
	}
	return *c.pendingPIN, true
}

// CurrentSession fetches the session open for check-in, for display.
func (c *Controller) CurrentSession(ctx context.Context) (*trainingsessions.TrainingSession, error) {
	ts, err := c.backend.CurrentTrainingSession(ctx)
	if c.cancelled.Load() {
		return nil, errors.ErrCancelled
	}
	return ts, err
}

// SubmitPhone validates phone, loads its athletes and enters StateAthletes
// with every athlete selected.
func (c *Controller) SubmitPhone(ctx context.Context, phone string) error {
	if err := c.expect(EventPhoneAccepted); err != nil {
		return err
	}
	if err := athletes.ValidatePhone(phone); err != nil {
		return err
	}

	list, err := c.backend.PhoneAthletes(ctx, phone)
	if c.cancelled.Load() {
		return errors.ErrCancelled
	}
	if err != nil {
		return err
	}

	if err := c.store.Set(ctx, kvstore.KeyAthletePhone, phone); err != nil {
		log.Err(err).Msg("Failed to persist athlete phone")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	next, err := Next(c.state, EventPhoneAccepted)
	if err != nil {
		return err
	}
	c.state = next
	c.phone = phone
	c.setAssociationsLocked(list)
	return nil
}

// Reload fetches the athlete list again and selects every athlete.
func (c *Controller) Reload(ctx context.Context) error {
	c.mu.Lock()
	phone, gen := c.phone, c.generation
	c.mu.Unlock()
	if phone == "" {
		return errors.Wrapf(errors.ErrInvalidTransition, "reload in state %s", StatePhone)
	}
	return c.reload(ctx, phone, gen)
}

func (c *Controller) reload(ctx context.Context, phone string, gen int) error {
	list, err := c.backend.PhoneAthletes(ctx, phone)
	if c.cancelled.Load() {
		return errors.ErrCancelled
	}
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return errors.ErrCancelled
	}
	c.setAssociationsLocked(list)
	return nil
}

func (c *Controller) OpenNewAthlete() error {
	return c.apply(EventOpenNewAthlete)
}

// CreateAthlete registers a new athlete on the phone. name must hold a first
// and a last name and confirmed says the user accepted that it cannot be
// changed later. The returned PIN has to be acknowledged before the kiosk
// leaves StateNewAthlete.
func (c *Controller) CreateAthlete(ctx context.Context, name string, confirmed bool) (athletes.Association, error) {
	c.mu.Lock()
	state, phone, gen, pending := c.state, c.phone, c.generation, c.pendingPIN != nil
	c.mu.Unlock()

	if state != StateNewAthlete {
		return athletes.Association{}, errors.Wrapf(errors.ErrInvalidTransition, "create athlete in state %s", state)
	}
	if pending {
		return athletes.Association{}, errPINNotAcknowledged()
	}
	name, err := athletes.ValidateFullName(name)
	if err != nil {
		return athletes.Association{}, err
	}
	if !confirmed {
		return athletes.Association{}, errors.Invalid("confirmed", athletes.MsgNameNotConfirmed)
	}

	created, err := c.backend.CreatePhoneAthlete(ctx, phone, name)
	if c.cancelled.Load() {
		return athletes.Association{}, errors.ErrCancelled
	}
	if err != nil {
		return athletes.Association{}, err
	}

	if err := c.reload(ctx, phone, gen); err != nil {
		log.Err(err).Str("phone", phone).Msg("Failed to reload athletes after registration")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return athletes.Association{}, errors.ErrCancelled
	}
	c.pendingPIN = created
	return *created, nil
}

// AcknowledgePIN confirms the new athlete's PIN was seen and returns to the
// athlete list.
func (c *Controller) AcknowledgePIN() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pendingPIN == nil {
		return errors.Wrapf(errors.ErrInvalidTransition, "no PIN to acknowledge in state %s", c.state)
	}
	next, err := Next(c.state, EventPINAcknowledged)
	if err != nil {
		return err
	}
	c.state = next
	c.pendingPIN = nil
	return nil
}

func (c *Controller) OpenAddViaPIN() error {
	return c.apply(EventOpenAddViaPIN)
}

// AddViaPIN links the athlete owning pin to the phone. On failure the
// controller stays in StateAddViaPIN so the user can correct the PIN.
func (c *Controller) AddViaPIN(ctx context.Context, pin string) (athletes.Association, error) {
	c.mu.Lock()
	state, phone, gen := c.state, c.phone, c.generation
	c.mu.Unlock()

	if state != StateAddViaPIN {
		return athletes.Association{}, errors.Wrapf(errors.ErrInvalidTransition, "add via PIN in state %s", state)
	}
	if err := athletes.ValidatePIN(pin); err != nil {
		return athletes.Association{}, err
	}

	added, err := c.backend.AddPhoneAthlete(ctx, phone, pin)
	if c.cancelled.Load() {
		return athletes.Association{}, errors.ErrCancelled
	}
	if err != nil {
		return athletes.Association{}, err
	}

	if err := c.reload(ctx, phone, gen); err != nil {
		log.Err(err).Str("phone", phone).Msg("Failed to reload athletes after linking")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return athletes.Association{}, errors.ErrCancelled
	}
	next, err := Next(c.state, EventPINAccepted)
	if err != nil {
		return athletes.Association{}, err
	}
	c.state = next
	return *added, nil
}

// Cancel leaves the new athlete or add-via-PIN screen. A created athlete's
// PIN must be acknowledged first.
func (c *Controller) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pendingPIN != nil {
		return errPINNotAcknowledged()
	}
	next, err := Next(c.state, EventCancel)
	if err != nil {
		return err
	}
	c.state = next
	return nil
}

// Reset returns to phone entry and forgets the phone's athletes. Pending
// reloads are dropped.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state, _ = Next(c.state, EventReset)
	c.phone = ""
	c.associations = nil
	c.selected = make(map[int]bool)
	c.pendingPIN = nil
	c.generation++
	c.stopReloadLocked()
}

// Toggle flips the selection of one listed athlete.
func (c *Controller) Toggle(athleteID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateAthletes {
		return errors.Wrapf(errors.ErrInvalidTransition, "toggle in state %s", c.state)
	}
	if !c.listedLocked(athleteID) {
		return errors.Wrapf(errors.ErrNotFound, "athlete %d", athleteID)
	}
	c.selected[athleteID] = !c.selected[athleteID]
	return nil
}

// SubmitCheckIn checks in every selected athlete, one request at a time, and
// reports successes and failures together. Nothing is sent when the
// selection is empty or no training session is open. The selection is
// cleared once the requests start and the list reloads after the reload
// delay.
func (c *Controller) SubmitCheckIn(ctx context.Context) (Summary, error) {
	c.mu.Lock()
	state, phone, gen := c.state, c.phone, c.generation
	ids := c.selectedLocked()
	names := make(map[int]string, len(c.associations))
	for _, a := range c.associations {
		names[a.AthleteID] = a.AthleteName
	}
	c.mu.Unlock()

	if state != StateAthletes {
		return Summary{}, errors.Wrapf(errors.ErrInvalidTransition, "check in in state %s", state)
	}
	if len(ids) == 0 {
		return Summary{}, errors.InvalidBecause(errors.ErrEmptySelection, "selection", MsgNoSelection)
	}

	session, err := c.backend.CurrentTrainingSession(ctx)
	if c.cancelled.Load() {
		return Summary{}, errors.ErrCancelled
	}
	if err != nil {
		if errors.Is(err, errors.ErrNoActiveSession) || errors.Is(err, errors.ErrNotFound) {
			return Summary{}, errors.InvalidBecause(errors.ErrNoActiveSession, "session", MsgNoActiveSession)
		}
		return Summary{}, err
	}

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return Summary{}, errors.ErrCancelled
	}
	c.selected = make(map[int]bool)
	c.mu.Unlock()

	summary := Summary{Session: session}
	for _, id := range ids {
		_, err := c.backend.CreateCheckIn(ctx, checkins.ForAthlete(phone, id))
		if c.cancelled.Load() {
			return summary, errors.ErrCancelled
		}
		if err != nil {
			log.Warn().Err(err).Int("athlete_id", id).Msg("Check-in failed")
			summary.Failed = append(summary.Failed, Failure{AthleteID: id, Name: names[id], Err: err})
			continue
		}
		summary.Succeeded = append(summary.Succeeded, names[id])
	}

	c.scheduleReload(phone, gen)
	return summary, nil
}

// RemoveAssociation unlinks an athlete from the phone. confirmed must be set
// by an explicit user confirmation.
func (c *Controller) RemoveAssociation(ctx context.Context, athleteID int, confirmed bool) error {
	c.mu.Lock()
	state, phone, gen, listed := c.state, c.phone, c.generation, c.listedLocked(athleteID)
	c.mu.Unlock()

	if state != StateAthletes {
		return errors.Wrapf(errors.ErrInvalidTransition, "remove in state %s", state)
	}
	if !confirmed {
		return errors.ErrNotConfirmed
	}
	if !listed {
		return errors.Wrapf(errors.ErrNotFound, "athlete %d", athleteID)
	}

	err := c.backend.RemovePhoneAthlete(ctx, phone, athleteID)
	if c.cancelled.Load() {
		return errors.ErrCancelled
	}
	if err != nil {
		return err
	}

	if err := c.reload(ctx, phone, gen); err != nil {
		log.Err(err).Str("phone", phone).Msg("Failed to reload athletes after removal")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.selected, athleteID)
	return nil
}

// Close drops every response still in flight and any pending reload.
func (c *Controller) Close() {
	c.cancelled.Store(true)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopReloadLocked()
}

func (c *Controller) scheduleReload(phone string, gen int) {
	if c.reloadDelay <= 0 {
		if err := c.reload(context.Background(), phone, gen); err != nil {
			log.Err(err).Msg("Failed to reload athletes after check-in")
		}
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopReloadLocked()
	c.reloadTimer = time.AfterFunc(c.reloadDelay, func() {
		if err := c.reload(context.Background(), phone, gen); err != nil && !errors.Is(err, errors.ErrCancelled) {
			log.Err(err).Msg("Failed to reload athletes after check-in")
		}
	})
}

func (c *Controller) stopReloadLocked() {
	if c.reloadTimer != nil {
		c.reloadTimer.Stop()
		c.reloadTimer = nil
	}
}

// apply runs a transition that changes no data.
func (c *Controller) apply(event Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	next, err := Next(c.state, event)
	if err != nil {
		return err
	}
	c.state = next
	return nil
}

// expect checks that event is valid in the current state without applying
// it.
func (c *Controller) expect(event Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := Next(c.state, event)
	return err
}

// setAssociationsLocked replaces the list and selects every athlete.
func (c *Controller) setAssociationsLocked(list []athletes.Association) {
	c.associations = list
	c.selected = make(map[int]bool, len(list))
	for _, a := range list {
		c.selected[a.AthleteID] = true
	}
}

func (c *Controller) selectedLocked() []int {
	ids := []int{}
	for _, a := range c.associations {
		if c.selected[a.AthleteID] {
			ids = append(ids, a.AthleteID)
		}
	}
	return ids
}

func (c *Controller) listedLocked(athleteID int) bool {
	for _, a := range c.associations {
		if a.AthleteID == athleteID {
			return true
		}
	}
	return false
}

func errPINNotAcknowledged() error {
	return errors.InvalidBecause(errors.ErrPINNotAcknowledged, "pin", MsgPINNotAcknowledged)
}
