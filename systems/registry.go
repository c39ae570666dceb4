package systems

// SystemInfo describes one step system for display.
type SystemInfo struct {
	ID          string // telemetry phase name
	Name        string
	Description string
	Category    string
}

// SystemGroup is the systems of one category, in step order.
type SystemGroup struct {
	Category string
	Systems  []SystemInfo
}

// stepSystems lists the step's systems in execution order. IDs match
// telemetry.Phase names.
var stepSystems = []SystemInfo{
	{ID: "transport", Name: "Transport", Description: "Bounds, field velocity and speed class", Category: "transport"},
	{ID: "cleanup", Name: "Cleanup", Description: "Removes destroyed particles", Category: "transport"},
	{ID: "physics", Name: "Physics", Description: "Integrates positions and bonded clusters", Category: "physics"},
	{ID: "contacts", Name: "Contacts", Description: "Detects new particle contacts", Category: "physics"},
	{ID: "aggregation", Name: "Aggregation", Description: "Joins contacting particles", Category: "physics"},
	{ID: "lifecycle", Name: "Lifecycle", Description: "Spawns populations and restarts runs", Category: "driver"},
	{ID: "telemetry", Name: "Telemetry", Description: "Window stats and logs", Category: "driver"},
}

// SystemRegistry maps system IDs to display metadata.
type SystemRegistry struct {
	systems []SystemInfo
	index   map[string]int
}

// NewSystemRegistry returns a registry holding the step systems.
func NewSystemRegistry() *SystemRegistry {
	r := &SystemRegistry{index: make(map[string]int, len(stepSystems))}
	for _, info := range stepSystems {
		r.Register(info)
	}
	return r
}

// Register adds info, replacing an earlier entry with the same ID in place.
func (r *SystemRegistry) Register(info SystemInfo) {
	if i, ok := r.index[info.ID]; ok {
		r.systems[i] = info
		return
	}
	r.index[info.ID] = len(r.systems)
	r.systems = append(r.systems, info)
}

// Lookup returns the entry for id.
func (r *SystemRegistry) Lookup(id string) (SystemInfo, bool) {
	i, ok := r.index[id]
	if !ok {
		return SystemInfo{}, false
	}
	return r.systems[i], true
}

// Name returns the display name for id, or id itself when unknown.
func (r *SystemRegistry) Name(id string) string {
	if info, ok := r.Lookup(id); ok {
		return info.Name
	}
	return id
}

// All returns every entry in registration order.
func (r *SystemRegistry) All() []SystemInfo { return r.systems }

// Groups returns entries grouped by category. Categories appear in the
// order of their first system.
func (r *SystemRegistry) Groups() []SystemGroup {
	var groups []SystemGroup
	pos := make(map[string]int)
	for _, info := range r.systems {
		g, ok := pos[info.Category]
		if !ok {
			g = len(groups)
			pos[info.Category] = g
			groups = append(groups, SystemGroup{Category: info.Category})
		}
		groups[g].Systems = append(groups[g].Systems, info)
	}
	return groups
}
