package key

import (
	"taxakey/internal/xmldoc"
)

func build(doc *xmldoc.Node, fallbackTitle string) *Key {
	k := &Key{
		Entities:     map[EntityID]*Entity{},
		Features:     map[FeatureID]*Feature{},
		Scores:       map[EntityID]map[FeatureID]Score{},
		Profiles:     map[EntityID]*Profile{},
		EntityMedia:  map[EntityID][]*Media{},
		FeatureMedia: map[FeatureID][]*Media{},
	}

	k.Title = property(doc, "key_title")
	k.Authors = property(doc, "key_authors")
	k.Description = property(doc, "key_description")
	if k.Title == "" {
		k.Title = fallbackTitle
	}

	entityTree := doc.Child("entity_tree")
	featureTree := doc.Child("feature_tree")

	collectEntities(k, entityTree)
	collectFeatures(k, featureTree)

	k.EntityTree = buildEntityNodes(k, entityTree)
	k.FeatureTree = buildFeatureNodes(k, featureTree)
	k.ScorableFeatures = countScorableFeatures(k.FeatureTree)

	return k
}

func property(doc *xmldoc.Node, name string) string {
	props := doc.Child("properties")
	for _, p := range props.ChildrenNamed("property") {
		if p.Attr("key") == name {
			return p.Text
		}
	}
	return ""
}

// collectEntities walks every entity_item and creates its catalog record,
// empty score map, and empty profile.
func collectEntities(k *Key, tree *xmldoc.Node) {
	work := append([]*xmldoc.Node{}, tree.ChildrenNamed("node")...)
	for len(work) > 0 {
		node := work[len(work)-1]
		work = work[:len(work)-1]

		if item := node.Child("entity_item"); item != nil {
			id := EntityID(item.Attr("item_id"))
			if id != "" {
				name := item.Attr("name")
				k.Entities[id] = &Entity{ID: id, Name: name}
				k.Scores[id] = map[FeatureID]Score{}
				k.Profiles[id] = &Profile{Name: name}
			}
		}
		work = append(work, node.Child("nodes").ChildrenNamed("node")...)
	}
}

type featureFrame struct {
	node  *xmldoc.Node
	group string
}

// collectFeatures walks every feature_item and state_item. Text features
// are dropped entirely, with their whole subtree. Each record keeps the
// name of its nearest enclosing feature group, and states plus childless
// non-state features go into the flat selectable list.
func collectFeatures(k *Key, tree *xmldoc.Node) {
	var work []featureFrame
	roots := tree.ChildrenNamed("node")
	for i := len(roots) - 1; i >= 0; i-- {
		work = append(work, featureFrame{node: roots[i]})
	}

	for len(work) > 0 {
		frame := work[len(work)-1]
		work = work[:len(work)-1]

		item := frame.node.Child("feature_item")
		isState := false
		if item == nil {
			item = frame.node.Child("state_item")
			isState = item != nil
		}
		if item == nil {
			continue
		}
		id := FeatureID(item.Attr("item_id"))
		if id == "" {
			continue
		}

		kind := KindState
		if !isState {
			switch item.Attr("score_type") {
			case "text":
				// Text features never participate in scoring or
				// matching; the subtree below them goes too.
				continue
			case "numeric":
				kind = KindNumeric
			}
		}

		k.Features[id] = &Feature{
			ID:         id,
			Name:       item.Attr("name"),
			Kind:       kind,
			IsState:    isState,
			GroupName:  frame.group,
			UnitPrefix: item.Attr("unit_prefix"),
			BaseUnit:   item.Attr("unit"),
		}

		children := frame.node.Child("nodes").ChildrenNamed("node")
		if isState || len(children) == 0 {
			k.FeatureList = append(k.FeatureList, id)
		}

		childGroup := frame.group
		if !isState {
			childGroup = item.Attr("name")
		}
		for i := len(children) - 1; i >= 0; i-- {
			work = append(work, featureFrame{node: children[i], group: childGroup})
		}
	}
}

type entityNodeFrame struct {
	node   *xmldoc.Node
	parent *EntityNode
}

// buildEntityNodes mirrors the XML nesting. A node whose id is absent from
// the catalog is dropped along with its entire subtree.
func buildEntityNodes(k *Key, tree *xmldoc.Node) []*EntityNode {
	var forest []*EntityNode
	var work []entityNodeFrame
	roots := tree.ChildrenNamed("node")
	for i := len(roots) - 1; i >= 0; i-- {
		work = append(work, entityNodeFrame{node: roots[i]})
	}

	for len(work) > 0 {
		frame := work[len(work)-1]
		work = work[:len(work)-1]

		item := frame.node.Child("entity_item")
		id := EntityID(item.Attr("item_id"))
		entity, ok := k.Entities[id]
		if !ok {
			continue
		}

		children := frame.node.Child("nodes").ChildrenNamed("node")
		treeNode := &EntityNode{
			ID:      id,
			Name:    entity.Name,
			IsGroup: len(children) > 0,
		}
		if frame.parent == nil {
			forest = append(forest, treeNode)
		} else {
			frame.parent.Children = append(frame.parent.Children, treeNode)
		}

		for i := len(children) - 1; i >= 0; i-- {
			work = append(work, entityNodeFrame{node: children[i], parent: treeNode})
		}
	}

	return forest
}

type featureNodeFrame struct {
	node   *xmldoc.Node
	parent *FeatureNode
}

func buildFeatureNodes(k *Key, tree *xmldoc.Node) []*FeatureNode {
	var forest []*FeatureNode
	var work []featureNodeFrame
	roots := tree.ChildrenNamed("node")
	for i := len(roots) - 1; i >= 0; i-- {
		work = append(work, featureNodeFrame{node: roots[i]})
	}

	for len(work) > 0 {
		frame := work[len(work)-1]
		work = work[:len(work)-1]

		item := frame.node.Child("feature_item")
		if item == nil {
			item = frame.node.Child("state_item")
		}
		id := FeatureID(item.Attr("item_id"))
		feature, ok := k.Features[id]
		if !ok {
			continue
		}

		treeNode := &FeatureNode{
			ID:      id,
			Name:    feature.Name,
			Kind:    feature.Kind,
			IsState: feature.IsState,
		}
		if frame.parent == nil {
			forest = append(forest, treeNode)
		} else {
			frame.parent.Children = append(frame.parent.Children, treeNode)
		}

		children := frame.node.Child("nodes").ChildrenNamed("node")
		for i := len(children) - 1; i >= 0; i-- {
			work = append(work, featureNodeFrame{node: children[i], parent: treeNode})
		}
	}

	return forest
}

// countScorableFeatures counts numeric features and categorical features
// (recognized because their children are states) once each. States never
// count individually, and pure grouping nodes are descended into without
// being counted.
func countScorableFeatures(forest []*FeatureNode) int {
	count := 0
	work := append([]*FeatureNode{}, forest...)
	for len(work) > 0 {
		node := work[len(work)-1]
		work = work[:len(work)-1]

		switch {
		case node.Kind == KindNumeric:
			count++
		case len(node.Children) > 0 && node.Children[0].IsState:
			count++
		default:
			work = append(work, node.Children...)
		}
	}
	return count
}
