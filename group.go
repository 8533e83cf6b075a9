package main

// Uncategorized collects feeds the API returned without a category.
var Uncategorized = Category{Slug: "", Name: "Uncategorized"}

// GroupByCategory partitions feeds by category slug. Groups come out in the
// order their slug is first seen and each keeps its feeds in input order; the
// category of a group is the one carried by its first feed.
func GroupByCategory(feeds []Feed) []CategoryGroup {
	groups := make([]CategoryGroup, 0)
	index := map[string]int{}
	for _, feed := range feeds {
		category := Uncategorized
		if feed.Category != nil {
			category = *feed.Category
		}
		pos, ok := index[category.Slug]
		if !ok {
			pos = len(groups)
			index[category.Slug] = pos
			groups = append(groups, CategoryGroup{Category: category})
		}
		groups[pos].Feeds = append(groups[pos].Feeds, feed)
	}
	return groups
}
