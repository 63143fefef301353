package mapgen

import (
	"context"
	"errors"
	"fmt"

	"github.com/cory-johannsen/dungeon/internal/game/dice"
	"github.com/cory-johannsen/dungeon/internal/game/world"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ErrMapGenerationFailed is returned when a run places no rooms.
var ErrMapGenerationFailed = errors.New("map generation failed")

// Generator places rooms and corridors on a fresh level.
type Generator struct {
	logger *zap.Logger
	tracer trace.Tracer
}

// NewGenerator creates a Generator.
//
// Precondition: logger and tracer must be non-nil.
func NewGenerator(logger *zap.Logger, tracer trace.Tracer) *Generator {
	return &Generator{logger: logger, tracer: tracer}
}

// run tracks per-generation bookkeeping.
type run struct {
	m        *world.Map
	skipped  int
	rejected int
}

// carve sets (x, y) to Floor, counting writes that fall off the grid.
func (r *run) carve(x, y int) {
	idx, err := r.m.Index(x, y)
	if err != nil {
		r.skipped++
		return
	}
	r.m.Tiles[idx] = world.Floor
}

func (r *run) carveRoom(room world.Room) {
	for y := room.Y1 + 1; y <= room.Y2; y++ {
		for x := room.X1 + 1; x <= room.X2; x++ {
			r.carve(x, y)
		}
	}
}

func (r *run) horizontalTunnel(x1, x2, y int) {
	for x := min(x1, x2); x <= max(x1, x2); x++ {
		r.carve(x, y)
	}
}

func (r *run) verticalTunnel(y1, y2, x int) {
	for y := min(y1, y2); y <= max(y1, y2); y++ {
		r.carve(x, y)
	}
}

// Generate builds a level at depth using src for every random decision.
//
// Precondition: p.Validate() == nil.
// Postcondition: on success every room is carved, consecutive rooms are
// joined by an L-shaped corridor, the last room's center is DownStairs, and
// Blocked reflects the terrain. Returns an error wrapping
// ErrMapGenerationFailed when no room could be placed.
func (g *Generator) Generate(ctx context.Context, depth int, p Params, src dice.Source) (*world.Map, error) {
	_, span := g.tracer.Start(ctx, "mapgen.generate")
	defer span.End()
	span.SetAttributes(
		attribute.Int("level.depth", depth),
		attribute.Int("level.width", p.Width),
		attribute.Int("level.height", p.Height),
		attribute.Int("level.max_rooms", p.MaxRooms),
	)

	if err := p.Validate(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid params")
		return nil, err
	}

	r := &run{m: world.NewMap(depth, p.Width, p.Height)}
	for i := 0; i < p.MaxRooms; i++ {
		w := dice.Range(src, p.MinRoomSize, p.MaxRoomSize)
		h := dice.Range(src, p.MinRoomSize, p.MaxRoomSize)
		x := dice.Range(src, 2, p.Width-w-1) - 1
		y := dice.Range(src, 2, p.Height-h-1) - 1
		candidate := world.NewRoom(x, y, w, h)

		if overlapsAny(r.m.Rooms, candidate) {
			r.rejected++
			continue
		}

		r.carveRoom(candidate)
		if n := len(r.m.Rooms); n > 0 {
			newX, newY := candidate.Center()
			prevX, prevY := r.m.Rooms[n-1].Center()
			if dice.Range(src, 0, 2) == 1 {
				r.horizontalTunnel(prevX, newX, prevY)
				r.verticalTunnel(prevY, newY, newX)
			} else {
				r.verticalTunnel(prevY, newY, prevX)
				r.horizontalTunnel(prevX, newX, newY)
			}
		}
		r.m.Rooms = append(r.m.Rooms, candidate)
	}

	if r.skipped > 0 {
		g.logger.Warn("carve writes fell outside the level",
			zap.Int("depth", depth),
			zap.Int("skipped", r.skipped),
		)
	}

	if len(r.m.Rooms) == 0 {
		err := fmt.Errorf("%w: depth %d: no room placed in %d attempts", ErrMapGenerationFailed, depth, p.MaxRooms)
		span.RecordError(err)
		span.SetStatus(codes.Error, "no rooms")
		return nil, err
	}

	sx, sy := r.m.Rooms[len(r.m.Rooms)-1].Center()
	stairs, err := r.m.Index(sx, sy)
	if err != nil {
		return nil, fmt.Errorf("%w: stairs: %w", ErrMapGenerationFailed, err)
	}
	r.m.Tiles[stairs] = world.DownStairs
	r.m.PopulateBlocked()

	span.SetAttributes(
		attribute.Int("level.rooms", len(r.m.Rooms)),
		attribute.Int("level.rejected", r.rejected),
	)
	g.logger.Debug("level generated",
		zap.Int("depth", depth),
		zap.Int("rooms", len(r.m.Rooms)),
		zap.Int("rejected", r.rejected),
		zap.Int("stairs_x", sx),
		zap.Int("stairs_y", sy),
	)
	return r.m, nil
}

func overlapsAny(rooms []world.Room, candidate world.Room) bool {
	for _, other := range rooms {
		if candidate.Intersects(other) {
			return true
		}
	}
	return false
}
