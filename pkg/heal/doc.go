// Package heal resolves logical UI element references to live element handles
// by trying candidate selectors in a fixed priority order.
//
// # Resolution Order
//
// A call to Find probes candidates one at a time against a single page and
// stops at the first candidate that matches at least one element:
//
//  1. Primary: the caller's selector list, in the caller's order
//  2. Text fallback: one exact-text selector built from Options.TextFallback
//  3. Heuristics: button text, link text, then any node whose normalized text
//     equals Options.Name
//
// Selection is by existence. For primary candidates the locator also waits up
// to Options.Timeout for the first match to become visible, but an element
// that stays hidden is still returned.
//
// # Ledger
//
// Every resolution appends one HealedEntry to the locator's ledger, whether it
// succeeds or not. The ledger is read with Log and exported to a report with
// AttachToReport.
//
// # Example Usage
//
//	loc := heal.New(page, heal.WithLogger(logger))
//	err := loc.Fill(ctx, []string{"#userName", "input[name=user]"}, "alice",
//	    heal.Options{Name: "Username"})
//	err = loc.Click(ctx, []string{"#login", "button.login"},
//	    heal.Options{Name: "Login", TextFallback: "Login"})
//
//	loc.AttachToReport(sink, "")
package heal
