package session

import "sort"

// Read-side aggregates over report rows. Pure; the dashboard derives
// these from the same row set it renders.

type GroupCount struct {
	Mode  string `json:"mode"`
	Value int    `json:"value"`
	Count int    `json:"count"`
}

type StudentAverage struct {
	StudentID     string  `json:"student_id"`
	StudentNumber int     `json:"student_number"`
	StudentName   string  `json:"student_name"`
	Sessions      int     `json:"sessions"`
	AverageScore  float64 `json:"average_score"`
}

type Summary struct {
	Total       int              `json:"total"`
	Passed      int              `json:"passed"`
	Failed      int              `json:"failed"`
	MostTested  *GroupCount      `json:"most_tested,omitempty"`
	TopStudents []StudentAverage `json:"top_students"`
}

// Summarize computes pass/fail counts, the most-tested grouping value,
// and the top-N students by average score.
func Summarize(rows []ReportRow, topN int) Summary {
	sum := Summary{TopStudents: []StudentAverage{}}
	groups := map[GroupCount]int{}
	perStudent := map[string]*StudentAverage{}
	var totals = map[string]int{}

	for _, r := range rows {
		sum.Total++
		if r.Passed {
			sum.Passed++
		} else {
			sum.Failed++
		}
		groups[GroupCount{Mode: r.Mode, Value: r.SelectedValue()}]++

		st, ok := perStudent[r.StudentID]
		if !ok {
			st = &StudentAverage{StudentID: r.StudentID, StudentNumber: r.StudentNumber, StudentName: r.StudentName}
			perStudent[r.StudentID] = st
		}
		st.Sessions++
		totals[r.StudentID] += r.Score
	}

	for key, n := range groups {
		key.Count = n
		if sum.MostTested == nil || better(key, *sum.MostTested) {
			k := key
			sum.MostTested = &k
		}
	}

	for id, st := range perStudent {
		st.AverageScore = float64(totals[id]) / float64(st.Sessions)
		sum.TopStudents = append(sum.TopStudents, *st)
	}
	sort.Slice(sum.TopStudents, func(i, j int) bool {
		a, b := sum.TopStudents[i], sum.TopStudents[j]
		if a.AverageScore != b.AverageScore {
			return a.AverageScore > b.AverageScore
		}
		return a.StudentNumber < b.StudentNumber
	})
	if topN > 0 && len(sum.TopStudents) > topN {
		sum.TopStudents = sum.TopStudents[:topN]
	}
	return sum
}

// better orders group counts by count desc, then mode, then value, so
// the most-tested pick is deterministic.
func better(a, b GroupCount) bool {
	if a.Count != b.Count {
		return a.Count > b.Count
	}
	if a.Mode != b.Mode {
		return a.Mode < b.Mode
	}
	return a.Value < b.Value
}
