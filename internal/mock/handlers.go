package mock

import (
	"encoding/json"
	"net/http"
	"net/url"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/threatintel/client/internal/types"
)

const markerFilterPrefix = "_marker:<'"

func (s *Server) handleActorIDs(w http.ResponseWriter, r *http.Request) {
	actors := s.matchingActors(r.URL.Query().Get(types.ParamQ))
	offset, end, limit := window(r.URL.Query(), len(actors))
	ids := make([]string, 0, end-offset)
	for _, a := range actors[offset:end] {
		ids = append(ids, strconv.FormatInt(a.ID, 10))
	}
	writeResources(w, ids, offset, limit, len(actors))
}

func (s *Server) handleActors(w http.ResponseWriter, r *http.Request) {
	actors := s.matchingActors(r.URL.Query().Get(types.ParamQ))
	offset, end, limit := window(r.URL.Query(), len(actors))
	writeResources(w, actors[offset:end], offset, limit, len(actors))
}

func (s *Server) handleActorEntities(w http.ResponseWriter, r *http.Request) {
	ids := r.URL.Query()[types.ParamIDs]
	s.mu.Lock()
	var out []types.Actor
	for _, a := range s.actors {
		if slices.Contains(ids, strconv.FormatInt(a.ID, 10)) {
			out = append(out, a)
		}
	}
	s.mu.Unlock()
	writeResources(w, out, 0, len(ids), len(out))
}

func (s *Server) matchingActors(q string) []types.Actor {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []types.Actor
	for _, a := range s.actors {
		if containsFold(a.Name, q) {
			out = append(out, a)
		}
	}
	return out
}

func (s *Server) handleReportIDs(w http.ResponseWriter, r *http.Request) {
	reports := s.matchingReports(r.URL.Query().Get(types.ParamQ))
	offset, end, limit := window(r.URL.Query(), len(reports))
	ids := make([]string, 0, end-offset)
	for _, rep := range reports[offset:end] {
		ids = append(ids, strconv.FormatInt(rep.ID, 10))
	}
	writeResources(w, ids, offset, limit, len(reports))
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	reports := s.matchingReports(r.URL.Query().Get(types.ParamQ))
	offset, end, limit := window(r.URL.Query(), len(reports))
	writeResources(w, reports[offset:end], offset, limit, len(reports))
}

func (s *Server) handleReportEntities(w http.ResponseWriter, r *http.Request) {
	ids := r.URL.Query()[types.ParamIDs]
	s.mu.Lock()
	var out []types.Report
	for _, rep := range s.reports {
		if slices.Contains(ids, strconv.FormatInt(rep.ID, 10)) {
			out = append(out, rep)
		}
	}
	s.mu.Unlock()
	writeResources(w, out, 0, len(ids), len(out))
}

func (s *Server) matchingReports(q string) []types.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []types.Report
	for _, rep := range s.reports {
		if containsFold(rep.Name, q) {
			out = append(out, rep)
		}
	}
	return out
}

func (s *Server) handleReportFile(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get(types.ParamID)
	s.mu.Lock()
	content, ok := s.reportFiles[id]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "report file not found")
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set(types.HeaderContentDisposition, `attachment; filename="`+id+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}

func (s *Server) handleRuleFile(w http.ResponseWriter, r *http.Request) {
	t := types.RuleSetType(r.URL.Query().Get(types.ParamType))
	s.mu.Lock()
	f, ok := s.ruleFiles[t]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "unknown rule set type")
		return
	}

	if inm := r.Header.Get("If-None-Match"); inm != "" && strings.Trim(inm, `"`) == f.ETag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	if ims := r.Header.Get("If-Modified-Since"); ims != "" && r.Header.Get("If-None-Match") == "" {
		if since, err := http.ParseTime(ims); err == nil && !f.LastModified.Truncate(time.Second).After(since) {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set(types.HeaderContentDisposition, "attachment; filename="+f.Filename)
	if f.ETag != "" {
		w.Header().Set(types.HeaderETag, `"`+f.ETag+`"`)
	}
	if !f.LastModified.IsZero() {
		w.Header().Set(types.HeaderLastModified, f.LastModified.UTC().Format(http.TimeFormat))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(f.Content)
}

func (s *Server) handleIndicatorIDs(w http.ResponseWriter, r *http.Request) {
	page, offset, limit, total := s.indicatorPage(w, r)
	ids := make([]string, 0, len(page))
	for _, ind := range page {
		ids = append(ids, ind.ID)
	}
	writeResources(w, ids, offset, limit, total)
}

func (s *Server) handleIndicators(w http.ResponseWriter, r *http.Request) {
	page, offset, limit, total := s.indicatorPage(w, r)
	writeResources(w, page, offset, limit, total)
}

func (s *Server) handleIndicatorEntities(w http.ResponseWriter, r *http.Request) {
	var body types.GetIndicatorsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	s.mu.Lock()
	var out []types.Indicator
	for _, ind := range s.indicators {
		if slices.Contains(body.IDs, ind.ID) {
			out = append(out, ind)
		}
	}
	s.mu.Unlock()
	writeResources(w, out, 0, len(body.IDs), len(out))
}

// indicatorPage selects a page of indicators. Sorted by _marker, paging
// continues through the Next-Page header, whose filter carries the last
// marker seen. Otherwise offset/limit apply.
func (s *Server) indicatorPage(w http.ResponseWriter, r *http.Request) (page []types.Indicator, offset, limit, total int) {
	q := r.URL.Query()
	includeDeleted, _ := strconv.ParseBool(q.Get(types.ParamIncludeDeleted))

	s.mu.Lock()
	var all []types.Indicator
	for _, ind := range s.indicators {
		if ind.Deleted && !includeDeleted {
			continue
		}
		all = append(all, ind)
	}
	s.mu.Unlock()
	total = len(all)

	if q.Get(types.ParamSort) != types.SortMarker {
		offset, end, limit := window(q, len(all))
		return all[offset:end], offset, limit, total
	}

	sort.Slice(all, func(i, j int) bool { return all[i].Marker > all[j].Marker })
	if f := q.Get(types.ParamFilter); strings.HasPrefix(f, markerFilterPrefix) {
		before := strings.TrimSuffix(strings.TrimPrefix(f, markerFilterPrefix), "'")
		i := sort.Search(len(all), func(i int) bool { return all[i].Marker < before })
		all = all[i:]
	}
	_, end, limit := window(url.Values{types.ParamLimit: q[types.ParamLimit]}, len(all))
	page = all[:end]
	if end < len(all) && end > 0 {
		next := q
		next.Del(types.ParamOffset)
		next.Set(types.ParamFilter, markerFilterPrefix+page[end-1].Marker+"'")
		w.Header().Set(types.HeaderNextPage, r.URL.Path+"?"+next.Encode())
	}
	return page, 0, limit, total
}
