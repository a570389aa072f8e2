package report

import (
	"context"
	"sync"

	"github.com/rich-armb/IAM-Reporting-Script/pkg/model"
)

// Summary counts what a run consumed, produced, and degraded on.
type Summary struct {
	Records        int // input records consumed
	Rows           int // report rows produced
	Skipped        int // records skipped as malformed or out of scope
	Noise          int // records excluded by the noise filter
	LookupFailures int // distinct resources whose resolution was degraded
}

// Assembler orchestrates resolution, filtering, and expansion over the raw
// record stream.
type Assembler struct {
	resolver *Resolver
	filter   *NoiseFilter
}

func NewAssembler(resolver *Resolver, filter *NoiseFilter) *Assembler {
	return &Assembler{resolver: resolver, filter: filter}
}

// Assemble produces the final report rows in input order: rows for a
// record appear before rows for any later record, bindings and members in
// the order the export listed them. Records whose resource is out of scope
// are skipped, and records matching the noise filter contribute nothing.
func (a *Assembler) Assemble(ctx context.Context, records []model.RawPolicyRecord) ([]model.ReportRow, Summary) {
	summary := Summary{Records: len(records)}

	resolved := a.resolveDistinct(ctx, records)
	noise := make(map[model.ResourceRef]bool, len(resolved))
	for ref, res := range resolved {
		if res.Degraded {
			summary.LookupFailures++
		}
		noise[ref] = a.filter.IsNoise(res)
	}

	var rows []model.ReportRow
	for _, record := range records {
		ref := record.Resource
		if !ref.InScope() {
			summary.Skipped++
			continue
		}
		if noise[ref] {
			summary.Noise++
			continue
		}
		rows = append(rows, Expand(resolved[ref], record.Bindings)...)
	}
	summary.Rows = len(rows)
	return rows, summary
}

// resolveDistinct resolves every in-scope resource referenced by the input,
// each exactly once, fanning the latency-bound lookups out across
// goroutines. The lookup cache guarantees ancestors shared between
// resources are still fetched at most once.
func (a *Assembler) resolveDistinct(ctx context.Context, records []model.RawPolicyRecord) map[model.ResourceRef]model.ResolvedResource {
	seen := make(map[model.ResourceRef]bool)
	results := make(chan model.ResolvedResource, len(records))

	var wg sync.WaitGroup
	for _, record := range records {
		ref := record.Resource
		if !ref.InScope() || seen[ref] {
			continue
		}
		seen[ref] = true

		wg.Add(1)
		go func(ref model.ResourceRef) {
			defer wg.Done()
			results <- a.resolver.Resolve(ctx, ref)
		}(ref)
	}
	wg.Wait()
	close(results)

	resolved := make(map[model.ResourceRef]model.ResolvedResource, len(seen))
	for res := range results {
		resolved[res.Ref] = res
	}
	return resolved
}
