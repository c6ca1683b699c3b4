package sqlite

import (
	"context"
	"fmt"
	"slices"

	"taxakey/internal/key"
)

// ExportKey replaces the database contents with a snapshot of the parsed
// key: catalogs, tree edges, the score table, and the load warnings.
func (c *Client) ExportKey(ctx context.Context, k *key.Key) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"key_info", "entities", "features", "state_scores", "numeric_scores", "warnings"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO key_info (id, title, authors, description, scorable_features) VALUES (1, ?, ?, ?, ?)`,
		k.Title, k.Authors, k.Description, k.ScorableFeatures)
	if err != nil {
		return fmt.Errorf("inserting key info: %w", err)
	}

	type entityRow struct {
		node     *key.EntityNode
		parent   string
		position int
	}
	work := make([]entityRow, 0, len(k.EntityTree))
	for i, node := range k.EntityTree {
		work = append(work, entityRow{node: node, position: i})
	}
	for len(work) > 0 {
		row := work[len(work)-1]
		work = work[:len(work)-1]

		var parent any
		if row.parent != "" {
			parent = row.parent
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO entities (entity_id, name, is_group, parent_id, position) VALUES (?, ?, ?, ?, ?)`,
			string(row.node.ID), row.node.Name, boolInt(row.node.IsGroup), parent, row.position)
		if err != nil {
			return fmt.Errorf("inserting entity %s: %w", row.node.ID, err)
		}
		for i, child := range row.node.Children {
			work = append(work, entityRow{node: child, parent: string(row.node.ID), position: i})
		}
	}

	for _, id := range sortedFeatureIDs(k) {
		f := k.Features[id]
		_, err := tx.ExecContext(ctx,
			`INSERT INTO features (feature_id, name, kind, is_state, group_name, unit) VALUES (?, ?, ?, ?, ?, ?)`,
			string(f.ID), f.Name, string(f.Kind), boolInt(f.IsState), f.GroupName, f.UnitPrefix+f.BaseUnit)
		if err != nil {
			return fmt.Errorf("inserting feature %s: %w", f.ID, err)
		}
	}

	for entityID, scores := range k.Scores {
		for featureID, score := range scores {
			switch score.Kind {
			case key.ScoreState:
				_, err = tx.ExecContext(ctx,
					`INSERT INTO state_scores (entity_id, feature_id, value) VALUES (?, ?, ?)`,
					string(entityID), string(featureID), score.Value)
			case key.ScoreNumeric:
				_, err = tx.ExecContext(ctx,
					`INSERT INTO numeric_scores (entity_id, feature_id, min, max) VALUES (?, ?, ?, ?)`,
					string(entityID), string(featureID), score.Min, score.Max)
			}
			if err != nil {
				return fmt.Errorf("inserting score (%s, %s): %w", entityID, featureID, err)
			}
		}
	}

	for _, warning := range k.Warnings {
		if _, err := tx.ExecContext(ctx, `INSERT INTO warnings (message) VALUES (?)`, warning); err != nil {
			return fmt.Errorf("inserting warning: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing export: %w", err)
	}

	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func sortedFeatureIDs(k *key.Key) []key.FeatureID {
	ids := make([]key.FeatureID, 0, len(k.Features))
	for id := range k.Features {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
