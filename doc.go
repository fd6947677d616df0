// Package clientrank ranks and filters a relationship manager's client book.
//
// It merges a client list with task, appointment, alert, relationship-health
// and semantic-search feeds into one deterministic order: semantic relevance
// first when a search is active, then most recently opened when the recent
// filter is on, then clients needing attention, then health score or AUM.
//
// # Low-level API
//
//	client, _ := clientrank.New(ctx, clientrank.WithBadger("data/clientrank"))
//	defer client.Close()
//	res := client.Rank(ctx, clientrank.RankInput{Clients: clients, Alerts: alerts})
//	_ = client.TouchRecent(ctx, res.Items[0].ID)
//
// # Fluent API
//
//	res, err := client.Ranking().
//	    Clients(clients...).
//	    Alerts(alerts...).
//	    Query("retirement income").
//	    Semantic(hits...).
//	    Tiers(clientrank.Platinum, clientrank.Gold).
//	    MinAUM(1_000_000).
//	    Do(ctx)
//
// Without a storage option the recently viewed history lives in memory and is
// lost on Close.
package clientrank
