package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/ayusman/banyan/internal/scene"
)

// LayoutRepository persists generated scene layouts so a session can be
// restored with identical geometry.
type LayoutRepository struct {
	db *sql.DB
}

// Layouts returns the layout repository for this store.
func (s *Store) Layouts() *LayoutRepository {
	return &LayoutRepository{db: s.db}
}

// Save inserts a layout and all of its entities in one transaction.
func (r *LayoutRepository) Save(l *scene.Layout) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}

	if _, err := tx.Exec(
		`INSERT INTO layouts (id, name, seed, created_at) VALUES (?, ?, ?, ?)`,
		l.ID, l.Name, l.Seed, l.CreatedAt,
	); err != nil {
		return err
	}

	for i := range l.Entities {
		e := &l.Entities[i]
		if _, err := tx.Exec(
			`INSERT INTO layout_entities
			 (id, layout_id, entity_index,
			  gathered_x, gathered_y, gathered_z,
			  scattered_x, scattered_y, scattered_z, photo_url)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, l.ID, e.Index,
			e.Gathered.X, e.Gathered.Y, e.Gathered.Z,
			e.Scattered.X, e.Scattered.Y, e.Scattered.Z, e.PhotoURL,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetByID retrieves a layout with its entities, ordered by entity index.
func (r *LayoutRepository) GetByID(id string) (*scene.Layout, error) {
	l := &scene.Layout{}
	err := r.db.QueryRow(
		`SELECT id, name, seed, created_at FROM layouts WHERE id = ?`, id,
	).Scan(&l.ID, &l.Name, &l.Seed, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := r.loadEntities(l); err != nil {
		return nil, err
	}
	return l, nil
}

// Latest retrieves the most recently created layout, or ErrNotFound when
// none has been saved yet.
func (r *LayoutRepository) Latest() (*scene.Layout, error) {
	var id string
	err := r.db.QueryRow(
		`SELECT id FROM layouts ORDER BY created_at DESC, rowid DESC LIMIT 1`,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return r.GetByID(id)
}

// List retrieves all layouts without their entities, newest first.
func (r *LayoutRepository) List() ([]*scene.Layout, error) {
	rows, err := r.db.Query(
		`SELECT id, name, seed, created_at FROM layouts ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var layouts []*scene.Layout
	for rows.Next() {
		l := &scene.Layout{}
		if err := rows.Scan(&l.ID, &l.Name, &l.Seed, &l.CreatedAt); err != nil {
			return nil, err
		}
		layouts = append(layouts, l)
	}
	return layouts, rows.Err()
}

// Delete removes a layout and, via cascade, its entities.
func (r *LayoutRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM layouts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetPhotoURL attaches a photo to one entity of a layout.
func (r *LayoutRepository) SetPhotoURL(layoutID string, index int, url string) error {
	result, err := r.db.Exec(
		`UPDATE layout_entities SET photo_url = ? WHERE layout_id = ? AND entity_index = ?`,
		url, layoutID, index,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *LayoutRepository) loadEntities(l *scene.Layout) error {
	rows, err := r.db.Query(
		`SELECT id, entity_index,
		        gathered_x, gathered_y, gathered_z,
		        scattered_x, scattered_y, scattered_z, photo_url
		 FROM layout_entities WHERE layout_id = ? ORDER BY entity_index`,
		l.ID,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var e scene.Entity
		if err := rows.Scan(&e.ID, &e.Index,
			&e.Gathered.X, &e.Gathered.Y, &e.Gathered.Z,
			&e.Scattered.X, &e.Scattered.Y, &e.Scattered.Z, &e.PhotoURL); err != nil {
			return err
		}
		l.Entities = append(l.Entities, e)
	}
	return rows.Err()
}
