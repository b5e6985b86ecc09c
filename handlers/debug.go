package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
)

func Debug(repoURL, sha1ver, buildtime string) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		v := mux.Vars(r)

		a := []string{fmt.Sprintf("url: %s %s", r.Method, r.RequestURI)}

		a = append(a, "Headers:")
		for k, vv := range r.Header {
			if len(vv) == 1 {
				a = append(a, fmt.Sprintf("  %s: %v", k, vv[0]))
			} else {
				a = append(a, "  "+k+":")
				for _, v2 := range vv {
					a = append(a, "    "+v2)
				}
			}
		}

		a = append(a, "")
		a = append(a, fmt.Sprintf("ver: %s/commit/%s", repoURL, sha1ver))
		a = append(a, fmt.Sprintf("built on: %s", buildtime))
		a = append(a, fmt.Sprintf("api version called: %s", v["apiVersion"]))

		s := strings.Join(a, "\n")

		rw.Header().Set("Content-Type", "text/plain")
		rw.Header().Set("Content-Length", strconv.Itoa(len(s)))
		rw.WriteHeader(http.StatusOK)
		rw.Write([]byte(s)) // nolint
	})
}
