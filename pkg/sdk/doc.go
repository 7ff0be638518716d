// Package screener embeds the résumé keyword screener in a Go program:
// candidate storage on Valkey, Redis or SQLite plus the concurrent
// exact/fuzzy matching engine, without the HTTP layer.
//
//	client, _ := screener.New(ctx, screener.WithSQLite("screener.db"))
//	defer client.Close()
//
//	_, _ = client.Candidates().Create(ctx, screener.Candidate{
//	    FirstName: "Ayu",
//	    Role:      "Backend Engineer",
//	    CVText:    extractedText,
//	})
//
//	res, _ := client.Search(ctx, screener.SearchOptions{
//	    Keywords:  []string{"python", "react"},
//	    Algorithm: screener.AhoCorasick,
//	    Fuzzy:     true,
//	    Limit:     10,
//	})
//	for _, hit := range res.Hits {
//	    fmt.Println(hit.CandidateID, hit.Kind, hit.Score)
//	}
package screener
