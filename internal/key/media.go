package key

import (
	"taxakey/internal/archive"
	"taxakey/internal/xmldoc"
)

// resolveMedia attaches media binaries to entities and features. Media
// files live under <root-prefix>Media/<media_path> in the outer archive.
// Every failure here is non-fatal: the item simply ends up without media
// and a warning is recorded.
func resolveMedia(k *Key, r *archive.Reader, media *xmldoc.Node, rootPrefix string) {
	if media == nil {
		return
	}

	for _, item := range media.ChildrenNamed("media_item") {
		mediaPath := item.Attr("media_path")
		details := item.Child("media_details")
		if mediaPath == "" || details == nil {
			k.warnf("media item without path or details skipped")
			continue
		}
		itemID := details.Attr("item_id")

		data, err := r.ReadEntry(rootPrefix + "Media/" + mediaPath)
		if err != nil {
			k.warnf("resolving media %s: %v", mediaPath, err)
			continue
		}

		m := &Media{
			Path:      mediaPath,
			Caption:   details.Attr("caption"),
			Copyright: details.Attr("copyright"),
			Comments:  details.Attr("comments"),
			Data:      data,
		}

		if _, ok := k.Entities[EntityID(itemID)]; ok {
			k.EntityMedia[EntityID(itemID)] = append(k.EntityMedia[EntityID(itemID)], m)
			continue
		}
		if _, ok := k.Features[FeatureID(itemID)]; ok {
			k.FeatureMedia[FeatureID(itemID)] = append(k.FeatureMedia[FeatureID(itemID)], m)
			continue
		}
		k.warnf("media %s references unknown item: %s", mediaPath, itemID)
	}
}
