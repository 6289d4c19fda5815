package workspace

// ResolveCheckout plans a checkout of target in every repository.
//
// Each repository checks out target if it exposes it, otherwise the first
// default ref (in priority order) it exposes. A repository exposing neither,
// or already on the chosen ref, is left alone. An empty target resolves
// every repository to its default.
func ResolveCheckout(target string, catalog *Catalog, defaults []string) Plan {
	plan := make(Plan, len(catalog.Repos))
	for _, repo := range catalog.Repos {
		plan[repo] = resolveRepo(target, repo, catalog, defaults)
	}
	return plan
}

// ResolveDefault plans a checkout of each repository's highest-priority
// default ref.
func ResolveDefault(catalog *Catalog, defaults []string) Plan {
	return ResolveCheckout("", catalog, defaults)
}

func resolveRepo(target string, repo *Repository, catalog *Catalog, defaults []string) Action {
	chosen := ""
	if target != "" && catalog.Has(target, repo) {
		chosen = target
	} else {
		for _, name := range defaults {
			if catalog.Has(name, repo) {
				chosen = name
				break
			}
		}
	}

	if chosen == "" || chosen == repo.Head {
		return NoOp()
	}
	return Checkout(chosen)
}
