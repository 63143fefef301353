package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/dungeon/internal/game/world"
)

// ErrLevelNotFound is returned when a level lookup yields no results.
var ErrLevelNotFound = errors.New("level not found")

// LevelSummary describes a stored level without its tile data.
type LevelSummary struct {
	ID        uuid.UUID
	Depth     int
	Width     int
	Height    int
	Rooms     int
	CreatedAt time.Time
}

// levelRow is the column-level form of a world.Map. Occupancy and the
// blocked layer are derived state and are not stored.
type levelRow struct {
	depth       int
	width       int
	height      int
	tiles       []int16
	rooms       []byte
	revealed    []bool
	visible     []bool
	bloodstains []int32
}

func encodeLevel(m *world.Map) (levelRow, error) {
	if err := m.Validate(); err != nil {
		return levelRow{}, fmt.Errorf("encoding level: %w", err)
	}
	tiles := make([]int16, len(m.Tiles))
	for i, t := range m.Tiles {
		tiles[i] = int16(t)
	}
	rooms := m.Rooms
	if rooms == nil {
		rooms = []world.Room{}
	}
	roomJSON, err := json.Marshal(rooms)
	if err != nil {
		return levelRow{}, fmt.Errorf("encoding rooms: %w", err)
	}
	stains := m.BloodstainIndices()
	bloodstains := make([]int32, len(stains))
	for i, idx := range stains {
		bloodstains[i] = int32(idx)
	}
	return levelRow{
		depth:       m.Depth,
		width:       m.Width,
		height:      m.Height,
		tiles:       tiles,
		rooms:       roomJSON,
		revealed:    m.Revealed,
		visible:     m.Visible,
		bloodstains: bloodstains,
	}, nil
}

func decodeLevel(r levelRow) (*world.Map, error) {
	m := world.NewMap(r.depth, r.width, r.height)
	if len(r.tiles) != m.Len() {
		return nil, fmt.Errorf("decoding level: %d tiles for %dx%d map", len(r.tiles), r.width, r.height)
	}
	for i, code := range r.tiles {
		t, err := world.TileFromCode(int(code))
		if err != nil {
			return nil, fmt.Errorf("decoding level: tile %d: %w", i, err)
		}
		m.Tiles[i] = t
	}
	if err := json.Unmarshal(r.rooms, &m.Rooms); err != nil {
		return nil, fmt.Errorf("decoding rooms: %w", err)
	}
	m.Revealed = r.revealed
	m.Visible = r.visible
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("decoding level: %w", err)
	}
	for _, idx := range r.bloodstains {
		if !m.ValidIndex(int(idx)) {
			return nil, fmt.Errorf("decoding level: bloodstain index %d: %w", idx, world.ErrOutOfBounds)
		}
		m.AddBloodstain(int(idx))
	}
	m.ResetTransient()
	return m, nil
}

// LevelRepository provides level persistence operations.
type LevelRepository struct {
	db *pgxpool.Pool
}

// NewLevelRepository creates a LevelRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewLevelRepository(db *pgxpool.Pool) *LevelRepository {
	return &LevelRepository{db: db}
}

// Save inserts m as a new level and returns its ID.
//
// Precondition: m satisfies world.Map's length invariants.
func (r *LevelRepository) Save(ctx context.Context, m *world.Map) (uuid.UUID, error) {
	row, err := encodeLevel(m)
	if err != nil {
		return uuid.Nil, err
	}
	id := uuid.New()
	_, err = r.db.Exec(ctx, `
		INSERT INTO levels
			(id, depth, width, height, tiles, rooms, revealed, visible, bloodstains)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		id, row.depth, row.width, row.height, row.tiles, row.rooms,
		row.revealed, row.visible, row.bloodstains,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("inserting level: %w", err)
	}
	return id, nil
}

// Update overwrites the stored knowledge layers and bloodstains of level id.
// Terrain and rooms are immutable once generated.
//
// Postcondition: returns ErrLevelNotFound when id is unknown.
func (r *LevelRepository) Update(ctx context.Context, id uuid.UUID, m *world.Map) error {
	row, err := encodeLevel(m)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE levels
		SET revealed = $2, visible = $3, bloodstains = $4, updated_at = NOW()
		WHERE id = $1`,
		id, row.revealed, row.visible, row.bloodstains,
	)
	if err != nil {
		return fmt.Errorf("updating level: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrLevelNotFound
	}
	return nil
}

// Load reads level id and rebuilds its transient layers.
//
// Postcondition: returns ErrLevelNotFound when id is unknown.
func (r *LevelRepository) Load(ctx context.Context, id uuid.UUID) (*world.Map, error) {
	var row levelRow
	err := r.db.QueryRow(ctx, `
		SELECT depth, width, height, tiles, rooms, revealed, visible, bloodstains
		FROM levels WHERE id = $1`, id,
	).Scan(&row.depth, &row.width, &row.height, &row.tiles, &row.rooms,
		&row.revealed, &row.visible, &row.bloodstains)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLevelNotFound
		}
		return nil, fmt.Errorf("querying level: %w", err)
	}
	return decodeLevel(row)
}

// Delete removes level id.
//
// Postcondition: returns ErrLevelNotFound when id is unknown.
func (r *LevelRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM levels WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting level: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrLevelNotFound
	}
	return nil
}

// ListByDepth returns summaries of every level at depth, oldest first.
func (r *LevelRepository) ListByDepth(ctx context.Context, depth int) ([]LevelSummary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, depth, width, height, jsonb_array_length(rooms), created_at
		FROM levels WHERE depth = $1 ORDER BY created_at ASC`, depth)
	if err != nil {
		return nil, fmt.Errorf("listing levels: %w", err)
	}
	defer rows.Close()

	var out []LevelSummary
	for rows.Next() {
		var s LevelSummary
		if err := rows.Scan(&s.ID, &s.Depth, &s.Width, &s.Height, &s.Rooms, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning level summary: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating levels: %w", err)
	}
	return out, nil
}
