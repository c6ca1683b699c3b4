package key

import (
	"testing"

	"taxakey/internal/xmldoc"
)

func mustParse(t *testing.T, xml string) *xmldoc.Node {
	t.Helper()
	doc, err := xmldoc.Parse([]byte(xml))
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}
	return doc
}

func TestCountScorableFeatures(t *testing.T) {
	t.Run("states never count individually", func(t *testing.T) {
		forest := []*FeatureNode{{
			ID: "f1", Kind: KindState,
			Children: []*FeatureNode{
				{ID: "s1", Kind: KindState, IsState: true},
				{ID: "s2", Kind: KindState, IsState: true},
				{ID: "s3", Kind: KindState, IsState: true},
			},
		}}
		if got := countScorableFeatures(forest); got != 1 {
			t.Fatalf("expected 1, got %d", got)
		}
	})

	t.Run("grouping nodes recursed but not counted", func(t *testing.T) {
		forest := []*FeatureNode{{
			ID: "g", Kind: KindState,
			Children: []*FeatureNode{
				{ID: "n1", Kind: KindNumeric},
				{
					ID: "g2", Kind: KindState,
					Children: []*FeatureNode{
						{ID: "f", Kind: KindState, Children: []*FeatureNode{
							{ID: "s", Kind: KindState, IsState: true},
						}},
					},
				},
			},
		}}
		if got := countScorableFeatures(forest); got != 2 {
			t.Fatalf("expected 2, got %d", got)
		}
	})

	t.Run("childless categorical feature not counted", func(t *testing.T) {
		forest := []*FeatureNode{{ID: "f", Kind: KindState}}
		if got := countScorableFeatures(forest); got != 0 {
			t.Fatalf("expected 0, got %d", got)
		}
	})
}

func TestBuildDropsUnknownIDs(t *testing.T) {
	doc := mustParse(t, `<key_data>
		<entity_tree>
			<node><entity_item item_id="" name="anonymous"/>
				<nodes>
					<node><entity_item item_id="e1" name="Orphan"/></node>
				</nodes>
			</node>
			<node><entity_item item_id="e2" name="Kept"/></node>
		</entity_tree>
		<feature_tree/>
	</key_data>`)

	k := build(doc, "fallback")

	// Dropping a node drops its whole subtree, no re-attachment.
	if len(k.EntityTree) != 1 || k.EntityTree[0].ID != "e2" {
		t.Fatalf("unexpected tree: %+v", k.EntityTree)
	}
	if _, ok := k.Entities["e1"]; !ok {
		t.Fatalf("catalog record should still exist for e1")
	}
}

func TestBuildEmptyDocument(t *testing.T) {
	doc := mustParse(t, `<key_data/>`)
	k := build(doc, "Untitled Key")

	if k.Title != "Untitled Key" {
		t.Fatalf("unexpected title: %q", k.Title)
	}
	if len(k.Entities) != 0 || len(k.Features) != 0 {
		t.Fatalf("expected empty catalogs")
	}
	if k.ScorableFeatures != 0 {
		t.Fatalf("expected 0 scorable features")
	}
}
