package game

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/holdemtable/internal/randutil"
	"github.com/lox/holdemtable/poker"
)

// Phase represents the table phase, lobby plus the four betting
// streets and showdown.
type Phase int

const (
	PhaseLobby Phase = iota
	PhasePreflop
	PhaseFlop
	PhaseTurn
	PhaseRiver
	PhaseShowdown
)

func (p Phase) String() string {
	return [...]string{"lobby", "preflop", "flop", "turn", "river", "showdown"}[p]
}

// MarshalText serializes the phase as its lowercase name
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText parses a lowercase phase name
func (p *Phase) UnmarshalText(text []byte) error {
	for candidate := PhaseLobby; candidate <= PhaseShowdown; candidate++ {
		if candidate.String() == string(text) {
			*p = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", string(text))
}

// LogEntry is one line of the bounded table log
type LogEntry struct {
	Time    string `json:"time"`
	Message string `json:"message"`
}

// maxLogEntries bounds the log ring; older entries are dropped FIFO.
const maxLogEntries = 40

// ShowdownHand describes one revealed hand at showdown
type ShowdownHand struct {
	PlayerID string       `json:"playerId"`
	Name     string       `json:"name"`
	Cards    []poker.Card `json:"cards"`
	Hand     string       `json:"hand"`
}

// PayoutRow is one winner's share of the pot
type PayoutRow struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Amount   int    `json:"amount"`
}

// Showdown is the snapshot of the last resolved hand, kept for the
// view until the next hand resolves.
type Showdown struct {
	Board   []poker.Card   `json:"board"`
	Hands   []ShowdownHand `json:"hands"`
	Payouts []PayoutRow    `json:"payouts"`
}

// Config carries the fixed table parameters
type Config struct {
	StartingStack int
	SmallBlind    int
	BigBlind      int
	MaxPlayers    int
	NextHandDelay time.Duration
}

// DefaultConfig returns the stakes used when nothing is configured
func DefaultConfig() Config {
	return Config{
		StartingStack: 1000,
		SmallBlind:    10,
		BigBlind:      20,
		MaxPlayers:    6,
		NextHandDelay: 5 * time.Second,
	}
}

// Table is the single authoritative game state. All exported event
// methods serialize on the table mutex and run to completion,
// including the broadcast, before the next event is handled.
type Table struct {
	mu      sync.Mutex
	logger  *log.Logger
	clock   quartz.Clock
	rng     *rand.Rand
	newDeck func() (*poker.Deck, error)
	notify  func(view func(viewerID string) *View)

	cfg     Config
	players []*Player // seat ring, insertion order

	gameStarted    bool
	handInProgress bool
	handNumber     int
	phase          Phase
	deck           *poker.Deck
	community      []poker.Card
	pot            int
	currentBet     int
	lastRaiseSize  int
	currentTurnID  string
	dealerID       string
	smallBlindID   string
	bigBlindID     string
	lastShowdown   *Showdown
	logs           []LogEntry
	nextHandTimer  *quartz.Timer
}

// Option customizes a Table, mostly for deterministic tests
type Option func(*Table)

// WithClock injects the clock used for log timestamps and the
// inter-hand timer.
func WithClock(clock quartz.Clock) Option {
	return func(t *Table) { t.clock = clock }
}

// WithRNG injects the shuffle RNG
func WithRNG(rng *rand.Rand) Option {
	return func(t *Table) { t.rng = rng }
}

// WithDeckFactory overrides how each hand's deck is built. Tests use
// this to stack known cards.
func WithDeckFactory(factory func() (*poker.Deck, error)) Option {
	return func(t *Table) { t.newDeck = factory }
}

// NewTable creates an empty table in the lobby phase
func NewTable(cfg Config, logger *log.Logger, opts ...Option) *Table {
	t := &Table{
		cfg:    cfg,
		logger: logger.WithPrefix("table"),
		clock:  quartz.NewReal(),
		rng:    randutil.New(time.Now().UnixNano()),
		phase:  PhaseLobby,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.newDeck == nil {
		t.newDeck = func() (*poker.Deck, error) { return poker.NewDeck(t.rng) }
	}
	return t
}

// SetNotify registers the broadcast callback. It is invoked at the
// end of every state-mutating event, while the table lock is held, so
// the state message for event E is enqueued to every client before
// the next event's handler begins. The callback must not block.
func (t *Table) SetNotify(fn func(view func(viewerID string) *View)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.notify = fn
}

// broadcastLocked pushes a fresh per-viewer projection to every
// connected client. Callers must hold the table lock.
func (t *Table) broadcastLocked() {
	if t.notify != nil {
		t.notify(t.viewForLocked)
	}
}

func (t *Table) appendLog(format string, args ...any) {
	entry := LogEntry{
		Time:    t.clock.Now().Format("15:04:05"),
		Message: fmt.Sprintf(format, args...),
	}
	t.logs = append(t.logs, entry)
	if len(t.logs) > maxLogEntries {
		t.logs = t.logs[len(t.logs)-maxLogEntries:]
	}
}

// Seat ring helpers. "next X after seat i" is a bounded linear scan,
// never map iteration.

func (t *Table) playerByID(id string) *Player {
	for _, p := range t.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (t *Table) seatIndex(id string) int {
	for i, p := range t.players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// nextWhere returns the first player after seat from (exclusive,
// wrapping) satisfying pred, or nil if none do.
func (t *Table) nextWhere(from int, pred func(*Player) bool) *Player {
	n := len(t.players)
	if n == 0 {
		return nil
	}
	for i := 1; i <= n; i++ {
		p := t.players[(from+i)%n]
		if pred(p) {
			return p
		}
	}
	return nil
}

func eligible(p *Player) bool {
	return !p.Disconnected && p.Chips > 0
}

func contender(p *Player) bool {
	return p.InHand && !p.Folded
}

// Join seats a new player. The id is the transport-assigned viewer
// id; the name is sanitized per the lobby rules.
func (t *Table) Join(id, rawName string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.playerByID(id) != nil {
		return errors.New("already seated")
	}
	if t.gameStarted {
		return errors.New("Game already started")
	}
	if len(t.players) >= t.cfg.MaxPlayers {
		return fmt.Errorf("table is full (%d seats)", t.cfg.MaxPlayers)
	}

	name, err := SanitizeName(rawName)
	if err != nil {
		return err
	}
	for _, p := range t.players {
		if p.Name == name {
			return fmt.Errorf("name %q is taken", name)
		}
	}

	player := &Player{
		ID:      id,
		Name:    name,
		Chips:   t.cfg.StartingStack,
		IsAdmin: len(t.players) == 0,
	}
	t.players = append(t.players, player)

	if player.IsAdmin {
		t.appendLog("%s joined the table as admin", name)
	} else {
		t.appendLog("%s joined the table", name)
	}
	t.logger.Info("Player joined", "player", name, "seats", len(t.players))

	t.broadcastLocked()
	return nil
}

// SetStartingStack changes the starting stack before the game begins
func (t *Table) SetStartingStack(id string, amount int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	player := t.playerByID(id)
	if player == nil {
		return errors.New("join the table first")
	}
	if !player.IsAdmin {
		return errors.New("only the admin can change the starting stack")
	}
	if t.gameStarted {
		return errors.New("Game already started")
	}
	if amount < 50 || amount > 1_000_000 {
		return errors.New("starting stack must be between 50 and 1000000")
	}

	t.cfg.StartingStack = amount
	for _, p := range t.players {
		p.Chips = amount
	}
	t.appendLog("%s set the starting stack to %d", player.Name, amount)

	t.broadcastLocked()
	return nil
}

// StartGame begins play. Admin only, at least two connected players.
func (t *Table) StartGame(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	player := t.playerByID(id)
	if player == nil {
		return errors.New("join the table first")
	}
	if !player.IsAdmin {
		return errors.New("only the admin can start the game")
	}
	if t.gameStarted {
		return errors.New("Game already started")
	}

	connected := 0
	for _, p := range t.players {
		if !p.Disconnected {
			connected++
		}
	}
	if connected < 2 {
		return errors.New("need at least 2 players to start")
	}

	t.gameStarted = true
	t.appendLog("%s started the game", player.Name)
	t.logger.Info("Game started", "players", connected)

	if err := t.startHandLocked(); err != nil {
		return err
	}

	t.broadcastLocked()
	return nil
}

// Disconnect handles a transport-level disconnect. Not a client
// error: an actionable player mid-hand is force-folded, an all-in
// player stays through showdown, and the seat is removed between
// hands.
func (t *Table) Disconnect(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	player := t.playerByID(id)
	if player == nil {
		return
	}
	player.Disconnected = true
	t.appendLog("%s disconnected", player.Name)
	t.logger.Info("Player disconnected", "player", player.Name)

	if t.handInProgress && player.Actionable() {
		t.forceFoldLocked(player)
	}

	if !t.handInProgress {
		t.removeDisconnectedLocked()
		t.reassignAdminLocked()
	}

	t.broadcastLocked()
}

// removeDisconnectedLocked drops disconnected seats. Only legal
// between hands.
func (t *Table) removeDisconnectedLocked() {
	kept := t.players[:0]
	for _, p := range t.players {
		if p.Disconnected {
			t.logger.Info("Removing disconnected player", "player", p.Name, "chips", p.Chips)
			continue
		}
		kept = append(kept, p)
	}
	t.players = kept
}

// reassignAdminLocked makes the first connected player admin if the
// current admin is absent.
func (t *Table) reassignAdminLocked() {
	for _, p := range t.players {
		if p.IsAdmin && !p.Disconnected {
			return
		}
	}
	for _, p := range t.players {
		p.IsAdmin = false
	}
	for _, p := range t.players {
		if !p.Disconnected {
			p.IsAdmin = true
			t.appendLog("%s is now the admin", p.Name)
			return
		}
	}
}

// Players returns a copy of the seat list in seat order, used by
// tests. The Player records in it are the table's own.
func (t *Table) Players() []*Player {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*Player, len(t.players))
	copy(out, t.players)
	return out
}
