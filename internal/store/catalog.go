package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fluidtypo3/fluxactions/internal/catalog"
	"github.com/fluidtypo3/fluxactions/internal/ir"
)

// SaveCatalog replaces the stored catalog snapshot with cat and plugins.
// The whole snapshot is written in one transaction; plugins may be nil.
func (s *Store) SaveCatalog(ctx context.Context, cat *catalog.Memory, plugins *catalog.PluginRegistry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save catalog: begin: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"actions", "controllers", "aliases", "plugins"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("save catalog: clear %s: %w", table, err)
		}
	}

	seq := int64(0)
	for _, c := range cat.Controllers() {
		seq++
		if _, err := tx.ExecContext(ctx, `INSERT INTO controllers (id, seq) VALUES (?, ?)`, c.ID, seq); err != nil {
			return fmt.Errorf("save catalog: controller %q: %w", c.ID, err)
		}
		for _, a := range c.Actions {
			params, err := marshalParams(a.Params)
			if err != nil {
				return fmt.Errorf("save catalog: %s->%s: %w", c.ID, a.Name, err)
			}
			seq++
			_, err = tx.ExecContext(ctx, `
				INSERT INTO actions (controller_id, name, description, params, seq)
				VALUES (?, ?, ?, ?, ?)
			`, c.ID, a.Name, a.Description, params, seq)
			if err != nil {
				return fmt.Errorf("save catalog: %s->%s: %w", c.ID, a.Name, err)
			}
		}
	}

	for _, a := range cat.Aliases() {
		seq++
		if _, err := tx.ExecContext(ctx, `INSERT INTO aliases (alias, target_id, seq) VALUES (?, ?, ?)`,
			a[0], a[1], seq); err != nil {
			return fmt.Errorf("save catalog: alias %q: %w", a[0], err)
		}
	}

	if plugins != nil {
		for _, p := range plugins.Plugins() {
			for _, entry := range p.Actions {
				actions, err := marshalStrings(entry.Actions)
				if err != nil {
					return fmt.Errorf("save catalog: plugin %s/%s: %w", p.ExtensionName, p.PluginName, err)
				}
				seq++
				_, err = tx.ExecContext(ctx, `
					INSERT INTO plugins (extension_name, plugin_name, controller, actions, seq)
					VALUES (?, ?, ?, ?, ?)
				`, p.ExtensionName, p.PluginName, entry.Controller, actions, seq)
				if err != nil {
					return fmt.Errorf("save catalog: plugin %s/%s: %w", p.ExtensionName, p.PluginName, err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save catalog: commit: %w", err)
	}
	return nil
}

// LoadCatalog reads the stored snapshot back into a memory catalog and a
// plugin registry. An empty store yields an empty catalog.
func (s *Store) LoadCatalog(ctx context.Context) (*catalog.Memory, *catalog.PluginRegistry, error) {
	controllers, err := s.readControllers(ctx)
	if err != nil {
		return nil, nil, err
	}
	cat := catalog.NewMemory(controllers...)

	aliases, err := s.readAliases(ctx)
	if err != nil {
		return nil, nil, err
	}
	// Aliases are saved sorted by alias, so a chain may reference a later row.
	for len(aliases) > 0 {
		var pending [][2]string
		var lastErr error
		for _, a := range aliases {
			if err := cat.Alias(a[0], a[1]); err != nil {
				pending = append(pending, a)
				lastErr = err
			}
		}
		if len(pending) == len(aliases) {
			return nil, nil, fmt.Errorf("load catalog: %w", lastErr)
		}
		aliases = pending
	}

	plugins, err := s.readPlugins(ctx)
	if err != nil {
		return nil, nil, err
	}
	return cat, plugins, nil
}

func (s *Store) readControllers(ctx context.Context) ([]ir.ControllerDef, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, a.name, a.description, a.params
		FROM controllers c
		LEFT JOIN actions a ON a.controller_id = c.id
		ORDER BY c.seq ASC, a.seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("load catalog: controllers: %w", err)
	}
	defer rows.Close()

	var out []ir.ControllerDef
	for rows.Next() {
		var id string
		var name, description, params sql.NullString
		if err := rows.Scan(&id, &name, &description, &params); err != nil {
			return nil, fmt.Errorf("load catalog: scan controller: %w", err)
		}
		if len(out) == 0 || out[len(out)-1].ID != id {
			out = append(out, ir.ControllerDef{ID: id, Actions: []ir.ActionDef{}})
		}
		if !name.Valid {
			continue
		}
		p, err := unmarshalParams(params.String)
		if err != nil {
			return nil, fmt.Errorf("load catalog: %s->%s: %w", id, name.String, err)
		}
		last := &out[len(out)-1]
		last.Actions = append(last.Actions, ir.ActionDef{
			Name:        name.String,
			Description: description.String,
			Params:      p,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load catalog: controllers: %w", err)
	}
	return out, nil
}

func (s *Store) readAliases(ctx context.Context) ([][2]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT alias, target_id FROM aliases ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("load catalog: aliases: %w", err)
	}
	defer rows.Close()

	var out [][2]string
	for rows.Next() {
		var alias, target string
		if err := rows.Scan(&alias, &target); err != nil {
			return nil, fmt.Errorf("load catalog: scan alias: %w", err)
		}
		out = append(out, [2]string{alias, target})
	}
	return out, rows.Err()
}

func (s *Store) readPlugins(ctx context.Context) (*catalog.PluginRegistry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT extension_name, plugin_name, controller, actions
		FROM plugins
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("load catalog: plugins: %w", err)
	}
	defer rows.Close()

	var defs []ir.PluginDef
	for rows.Next() {
		var ext, plugin, controller, actions string
		if err := rows.Scan(&ext, &plugin, &controller, &actions); err != nil {
			return nil, fmt.Errorf("load catalog: scan plugin: %w", err)
		}
		list, err := unmarshalStrings(actions)
		if err != nil {
			return nil, fmt.Errorf("load catalog: plugin %s/%s: %w", ext, plugin, err)
		}
		n := len(defs)
		if n == 0 || defs[n-1].ExtensionName != ext || defs[n-1].PluginName != plugin {
			defs = append(defs, ir.PluginDef{ExtensionName: ext, PluginName: plugin, Actions: ir.ActionSpec{}})
			n++
		}
		defs[n-1].Actions = append(defs[n-1].Actions, ir.ControllerActions{Controller: controller, Actions: list})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load catalog: plugins: %w", err)
	}

	registry := catalog.NewPluginRegistry()
	for _, d := range defs {
		registry.Register(d)
	}
	return registry, nil
}
