package main

import (
	"bufio"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"

	"github.com/salam-lobad/ablate/convergence"
)

var (
	csvFile  string
	expected = math.NaN()
)

func main() {
	csvFilePtr := flag.String("csvFile", csvFile, "file containing entries of a convergence study: title, h, errors...")
	expectedPtr := flag.Float64("expected", expected, "expected order of accuracy for every error column")
	flag.Parse()
	csvFile = *csvFilePtr
	expected = *expectedPtr
	if len(csvFile) == 0 {
		flag.Usage()
		os.Exit(1)
	}
	fmt.Printf("Input file: %v\n", csvFile)
	f, err := os.Open(csvFile)
	if err != nil {
		panic(err)
	}
	defer f.Close()
	studies, err := readCSV(f)
	if err != nil {
		panic(err)
	}
	failed := false
	for _, title := range sortedTitles(studies) {
		ct := studies[title]
		fmt.Print(ct.String())
		if math.IsNaN(expected) {
			continue
		}
		want := make([]float64, len(ct.Rates()))
		for i := range want {
			want[i] = expected
		}
		if ok, msg := ct.CompareConvergenceRate(want); !ok {
			fmt.Print(msg)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func sortedTitles(studies map[string]*convergence.ConvergenceTester) (titles []string) {
	for title := range studies {
		titles = append(titles, title)
	}
	sort.Strings(titles)
	return
}

// readCSV groups the rows after the header by title, each row is title, h, then one error per column
func readCSV(rd io.Reader) (studies map[string]*convergence.ConvergenceTester, err error) {
	var (
		records [][]string
		ok      bool
		ct      *convergence.ConvergenceTester
	)
	studies = make(map[string]*convergence.ConvergenceTester)
	r := csv.NewReader(bufio.NewReader(rd))
	r.FieldsPerRecord = -1
	if records, err = r.ReadAll(); err != nil {
		return nil, err
	}
	for i, rec := range records {
		if i == 0 {
			continue
		}
		if len(rec) < 3 {
			return nil, fmt.Errorf("line %d: need a title, h and at least one error, have %v", i+1, rec)
		}
		title := rec[0]
		h, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		errs := make([]float64, len(rec)-2)
		for c, txt := range rec[2:] {
			if errs[c], err = strconv.ParseFloat(txt, 64); err != nil {
				return nil, fmt.Errorf("line %d: %w", i+1, err)
			}
		}
		if ct, ok = studies[title]; !ok {
			ct = convergence.NewConvergenceTester(title)
			studies[title] = ct
		}
		ct.Record(h, errs)
	}
	return
}
