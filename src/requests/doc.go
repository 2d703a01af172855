// Package requests generates one HTTP request test per role.
//
// A Suite runs the same request as an anonymous visitor and then as each
// configured role, every run in its own subtest named "<name> <role>".
// Anonymous runs use the role name "none". Unless the Assertions callback
// handles the response and returns true, logged-in roles are expected to
// get 401 and anonymous visitors a redirect to the login page.
//
//	suite.POST(t, "create note", "/notes", &requests.Options{
//		Params: func(t testing.TB, s *requests.Session) requests.Params {
//			return requests.Params{Values: url.Values{"title": {"Groceries"}}}
//		},
//		Difference: &requests.Difference{
//			Label:  "notes",
//			Count:  fixture.NoteCounter(),
//			ByRole: map[string]int{"admin": 1, "editor": 1},
//		},
//		Assertions: func(t testing.TB, s *requests.Session, resp *requests.Response) bool {
//			if s.Role == "admin" || s.Role == "editor" {
//				return assert.Equal(t, http.StatusCreated, resp.Status)
//			}
//			return false
//		},
//	})
package requests
