package games

// Roster tracks the player map, lifecycle phase, and hint budget shared
// by every variant. It is not safe for concurrent use; the owning game
// instance must hold its own lock around every call.
type Roster struct {
	players   map[string]Player
	phase     Phase
	hintsUsed int
}

// NewRoster creates an empty roster.
func NewRoster() *Roster {
	return &Roster{
		players: make(map[string]Player),
		phase:   PhaseEmpty,
	}
}

// Add assigns the first unoccupied role to the connection. A connection
// that already holds a role gets its existing role back unchanged.
func (r *Roster) Add(connID, name string) (Role, error) {
	if p, ok := r.players[connID]; ok {
		return p.Role, nil
	}
	if len(r.players) >= MaxPlayers {
		return RoleNone, ErrGameFull
	}

	role := RolePiltover
	for _, p := range r.players {
		if p.Role == RolePiltover {
			role = RoleZaun
		}
	}
	r.players[connID] = Player{ConnID: connID, Name: name, Role: role}

	if r.phase != PhaseCompleted {
		if len(r.players) == MaxPlayers {
			r.phase = PhaseActive
		} else {
			r.phase = PhaseWaiting
		}
	}
	return role, nil
}

// Remove drops the connection's entry if present. A game that loses a
// player while active falls back to waiting; further actions are gated
// until a second player joins again.
func (r *Roster) Remove(connID string) bool {
	if _, ok := r.players[connID]; !ok {
		return false
	}
	delete(r.players, connID)

	switch {
	case len(r.players) == 0:
		if r.phase != PhaseCompleted {
			r.phase = PhaseEmpty
		}
	case r.phase == PhaseActive:
		r.phase = PhaseWaiting
	}
	return true
}

// Role returns the role held by the connection, or RoleNone.
func (r *Roster) Role(connID string) Role {
	return r.players[connID].Role
}

// Player returns the entry for the connection.
func (r *Roster) Player(connID string) (Player, bool) {
	p, ok := r.players[connID]
	return p, ok
}

// Players returns all joined players, Piltover first.
func (r *Roster) Players() []Player {
	out := make([]Player, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, p)
	}
	if len(out) == 2 && out[0].Role != RolePiltover {
		out[0], out[1] = out[1], out[0]
	}
	return out
}

// ConnIDs returns the connection ids of all joined players.
func (r *Roster) ConnIDs() []string {
	out := make([]string, 0, len(r.players))
	for id := range r.players {
		out = append(out, id)
	}
	return out
}

// Len returns the number of joined players.
func (r *Roster) Len() int {
	return len(r.players)
}

// Phase returns the current lifecycle phase.
func (r *Roster) Phase() Phase {
	return r.phase
}

// Complete moves the instance into the terminal phase.
func (r *Roster) Complete() {
	r.phase = PhaseCompleted
}

// Completed reports whether the instance reached the terminal phase.
func (r *Roster) Completed() bool {
	return r.phase == PhaseCompleted
}

// ResetProgress restores phase and hint budget for a restart. The
// player map is preserved.
func (r *Roster) ResetProgress() {
	r.hintsUsed = 0
	switch len(r.players) {
	case 0:
		r.phase = PhaseEmpty
	case MaxPlayers:
		r.phase = PhaseActive
	default:
		r.phase = PhaseWaiting
	}
}

// Gate validates that the connection may act right now. It returns a
// human-readable reason when the action must be rejected.
func (r *Roster) Gate(connID string) (string, bool) {
	if _, ok := r.players[connID]; !ok {
		return "You have not joined this game", false
	}
	switch r.phase {
	case PhaseCompleted:
		return "The game is already complete", false
	case PhaseActive:
		return "", true
	default:
		return "Waiting for a partner to join", false
	}
}

// UseHint consumes one unit of the hint budget.
func (r *Roster) UseHint() (remaining int, ok bool) {
	if r.hintsUsed >= HintBudget {
		return 0, false
	}
	r.hintsUsed++
	return HintBudget - r.hintsUsed, true
}

// HintsUsed returns how many hints were consumed this session.
func (r *Roster) HintsUsed() int {
	return r.hintsUsed
}

// HintsLeft returns the remaining hint budget.
func (r *Roster) HintsLeft() int {
	return HintBudget - r.hintsUsed
}

// Infos returns the wire representation of all joined players.
func (r *Roster) Infos() []PlayerInfo {
	players := r.Players()
	out := make([]PlayerInfo, 0, len(players))
	for _, p := range players {
		out = append(out, PlayerInfo{Name: p.Name, Role: p.Role.String()})
	}
	return out
}
