// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package github

import "strings"

// LoginResolver maps an email address to the GitHub login expected as the
// pull request author.
type LoginResolver func(email string) string

// EmailLocalPart returns the part of the email before "@".
// It is a heuristic: many users' logins differ from their email local part.
func EmailLocalPart(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

// StaticLogins resolves emails through an explicit mapping and falls back to
// EmailLocalPart for unknown addresses.
func StaticLogins(logins map[string]string) LoginResolver {
	lowered := make(map[string]string, len(logins))
	for email, login := range logins {
		lowered[strings.ToLower(email)] = login
	}
	return func(email string) string {
		if login, ok := lowered[strings.ToLower(email)]; ok {
			return login
		}
		return EmailLocalPart(email)
	}
}

func (r LoginResolver) resolve(email string) string {
	if r == nil {
		return EmailLocalPart(email)
	}
	return r(email)
}
