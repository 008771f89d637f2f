package validator

import (
	"fmt"
	"strings"

	"github.com/gammazero/deque"

	"github.com/aretw0/infrasim/pkg/config"
)

// Report is the outcome of a graph crawl.
type Report struct {
	// Broken lists "node -> dependency" links whose target is not declared.
	Broken []string
	// Silent lists nodes that no event-emitting node reaches through its
	// dependencies, so their state can never show up in the output.
	Silent []string
}

// Err returns the broken links as an error, or nil.
func (r Report) Err() error {
	if len(r.Broken) == 0 {
		return nil
	}
	return fmt.Errorf("found %d errors:\n- %s", len(r.Broken), strings.Join(r.Broken, "\n- "))
}

// ValidateGraph crawls the dependency graph breadth-first starting from every
// node whose type has triggers.
func ValidateGraph(cfg *config.Config) Report {
	var report Report

	declared := make(map[string]config.NodeSpec, len(cfg.Graph))
	for _, n := range cfg.Graph {
		declared[n.ID] = n
	}
	// Aggregate types implicitly depend on every node of the collected type.
	collected := make(map[string][]string)
	for _, n := range cfg.Graph {
		collected[n.Type] = append(collected[n.Type], n.ID)
	}

	visited := make(map[string]bool, len(cfg.Graph))
	var queue deque.Deque[string]
	for _, n := range cfg.Graph {
		if len(cfg.Types[n.Type].Triggers) > 0 {
			queue.PushBack(n.ID)
		}
	}

	for queue.Len() > 0 {
		currentID := queue.PopFront()
		if visited[currentID] {
			continue
		}
		visited[currentID] = true

		node := declared[currentID]
		deps := node.Dependencies
		if c := cfg.Types[node.Type].Collects; c != "" {
			deps = append(deps[:len(deps):len(deps)], collected[c]...)
		}
		for _, target := range deps {
			if _, ok := declared[target]; !ok {
				report.Broken = append(report.Broken, fmt.Sprintf("Missing dependency: '%s' -> '%s'", currentID, target))
				continue
			}
			if !visited[target] {
				queue.PushBack(target)
			}
		}
	}

	for _, n := range cfg.Graph {
		if !visited[n.ID] {
			report.Silent = append(report.Silent, n.ID)
		}
	}
	// Silent nodes are not crawled, check their links too.
	for _, id := range report.Silent {
		for _, target := range declared[id].Dependencies {
			if _, ok := declared[target]; !ok {
				report.Broken = append(report.Broken, fmt.Sprintf("Missing dependency: '%s' -> '%s'", id, target))
			}
		}
	}
	return report
}
