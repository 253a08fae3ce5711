// Package tiled splits a large mesh into a grid of independently built
// navmesh tiles, sized in voxels, and assembles them sequentially or in
// parallel.
package tiled

import (
	"context"
	"runtime"

	"github.com/arl-navgen/navmesh/internal/buildlog"
	"github.com/arl-navgen/navmesh/navmesh"
	"github.com/aurelien-rainone/math32"
	"golang.org/x/sync/errgroup"
)

// Config describes a tiled build: a base Config shared by every tile plus
// the tile grid geometry. TileSize is in voxels, matching the base
// Config's CellSize; a tile's world-space footprint also grows by
// BorderSize voxels on every side so contours never run along the cut.
type Config struct {
	Base     navmesh.Config
	TileSize int32
}

// New validates size and returns a ready Config, or a TilingNotEnabled
// error if tileSize is not positive or the resulting tile footprint in
// world units (tileSize * cell_size) is not positive.
func New(base navmesh.Config, tileSize int32) (*Config, error) {
	tileWorldSize := float32(tileSize) * base.CellSize
	if tileSize <= 0 || tileWorldSize <= 0 {
		return nil, &navmesh.BuildError{Stage: navmesh.StageTilingNotEnabled, Message: "tile_size must be > 0 and tile_size * cell_size must be > 0"}
	}
	return &Config{Base: base, TileSize: tileSize}, nil
}

// Grid returns the tile counts along X and Z implied by cfg.Base.AABB and
// the tile's world-space footprint (tile_size * cell_size), per-axis
// ceil(worldExtent / tileWorldSize).
func (cfg *Config) Grid() (tilesX, tilesZ int32) {
	tileWorldSize := float32(cfg.TileSize) * cfg.Base.CellSize
	extent := cfg.Base.AABB.Max
	origin := cfg.Base.AABB.Min
	tilesX = ceilDivF(extent[0]-origin[0], tileWorldSize)
	tilesZ = ceilDivF(extent[2]-origin[2], tileWorldSize)
	return
}

func ceilDivF(extent, tileWorldSize float32) int32 {
	if extent <= 0 || tileWorldSize <= 0 {
		return 0
	}
	return int32(math32.Ceil(extent / tileWorldSize))
}

// Tile identifies one cell of the tile grid and its build output.
type Tile struct {
	X, Z   int32
	Bounds navmesh.AABB3D
	Poly   *navmesh.PolygonNavmesh
	Detail *navmesh.DetailNavmesh
}

// tileBounds returns the world AABB for tile (tx,tz), expanded by
// BorderSize voxels on every side.
func (cfg *Config) tileBounds(tx, tz int32) navmesh.AABB3D {
	cs := cfg.Base.CellSize
	origin := cfg.Base.AABB.Min
	tileWorld := float32(cfg.TileSize) * cs
	b := navmesh.AABB3D{
		Min: [3]float32{origin[0] + float32(tx)*tileWorld, cfg.Base.AABB.Min[1], origin[2] + float32(tz)*tileWorld},
		Max: [3]float32{origin[0] + float32(tx+1)*tileWorld, cfg.Base.AABB.Max[1], origin[2] + float32(tz+1)*tileWorld},
	}
	return b.ExpandXZ(float32(cfg.Base.BorderSize) * cs)
}

// clipMesh returns the subset of mesh whose triangle AABB overlaps
// bounds, reindexed to a fresh, compact vertex pool.
func clipMesh(mesh *navmesh.TriMesh, bounds navmesh.AABB3D) *navmesh.TriMesh {
	out := &navmesh.TriMesh{}
	remap := make(map[int32]int32)
	addVert := func(i int32) int32 {
		if ni, ok := remap[i]; ok {
			return ni
		}
		ni := int32(len(out.Verts))
		out.Verts = append(out.Verts, mesh.Verts[i])
		remap[i] = ni
		return ni
	}
	for ti, tri := range mesh.Tris {
		triBounds := triAABB(mesh.Verts[tri[0]], mesh.Verts[tri[1]], mesh.Verts[tri[2]])
		if !triBounds.Intersects(bounds) {
			continue
		}
		out.Tris = append(out.Tris, [3]int32{addVert(tri[0]), addVert(tri[1]), addVert(tri[2])})
		out.Areas = append(out.Areas, mesh.Areas[ti])
	}
	return out
}

func triAABB(a, b, c [3]float32) navmesh.AABB3D {
	bmin, bmax := a, a
	for _, v := range [2][3]float32{b, c} {
		for k := 0; k < 3; k++ {
			if v[k] < bmin[k] {
				bmin[k] = v[k]
			}
			if v[k] > bmax[k] {
				bmax[k] = v[k]
			}
		}
	}
	return navmesh.AABB3D{Min: bmin, Max: bmax}
}

func (cfg *Config) buildTile(tx, tz int32, mesh *navmesh.TriMesh, pool *navmesh.TileWorkspacePool, log *buildlog.Build) (*Tile, error) {
	bounds := cfg.tileBounds(tx, tz)
	tileCfg := cfg.Base
	tileCfg.AABB = bounds

	clipped := clipMesh(mesh, bounds)

	var poly *navmesh.PolygonNavmesh
	var detail *navmesh.DetailNavmesh
	var err error
	if pool != nil {
		width, height := navmesh.GridSize(bounds, tileCfg.CellSize)
		ws := pool.Get(width, height, bounds, tileCfg.CellSize, tileCfg.CellHeight)
		poly, detail, err = navmesh.BuildTileNavmesh(&tileCfg, clipped, ws, log)
		pool.Put(ws)
	} else {
		poly, detail, err = navmesh.BuildSingleNavmesh(&tileCfg, clipped, log)
	}
	if err != nil {
		return nil, err
	}
	return &Tile{X: tx, Z: tz, Bounds: bounds, Poly: poly, Detail: detail}, nil
}

// GenerateTilesSequential builds every tile of the grid one after another,
// in row-major (z, then x) order, reusing a single pooled Heightfield
// workspace across all of them.
func GenerateTilesSequential(cfg *Config, mesh *navmesh.TriMesh, log *buildlog.Build) ([]*Tile, error) {
	tilesX, tilesZ := cfg.Grid()
	tiles := make([]*Tile, 0, tilesX*tilesZ)
	pool := navmesh.NewTileWorkspacePool()
	for tz := int32(0); tz < tilesZ; tz++ {
		for tx := int32(0); tx < tilesX; tx++ {
			tile, err := cfg.buildTile(tx, tz, mesh, pool, log)
			if err != nil {
				return nil, err
			}
			tiles = append(tiles, tile)
		}
	}
	return tiles, nil
}

// GenerateTilesParallel builds the same grid as GenerateTilesSequential,
// concurrently, using errgroup to cap fan-out and abort the whole batch on
// ctx cancellation or the first tile error. Output order matches
// GenerateTilesSequential's row-major order regardless of completion order,
// so the two functions are byte-equal for the same input.
func GenerateTilesParallel(ctx context.Context, cfg *Config, mesh *navmesh.TriMesh, log *buildlog.Build) ([]*Tile, error) {
	tilesX, tilesZ := cfg.Grid()
	n := int(tilesX * tilesZ)
	tiles := make([]*Tile, n)
	pool := navmesh.NewTileWorkspacePool()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for idx := 0; idx < n; idx++ {
		idx := idx
		tx, tz := idx32(idx)%tilesX, idx32(idx)/tilesX
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			tile, err := cfg.buildTile(tx, tz, mesh, pool, log)
			if err != nil {
				return err
			}
			tiles[idx] = tile
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tiles, nil
}

func idx32(i int) int32 { return int32(i) }
