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

import (
	"fmt"
	"strings"
	"time"

	"github.com/shurcooL/graphql"

	velocityerrors "github.com/sirseerhq/sirseer-velocity/internal/errors"
)

type pageInfo struct {
	HasNextPage graphql.Boolean
	EndCursor   graphql.String
}

type commitNode struct {
	OID           graphql.String `graphql:"oid"`
	CommittedDate time.Time
	Additions     graphql.Int
	Deletions     graphql.Int
}

func (n commitNode) toCommit() Commit {
	return Commit{
		OID:           string(n.OID),
		CommittedDate: n.CommittedDate.UTC(),
		Additions:     int(n.Additions),
		Deletions:     int(n.Deletions),
	}
}

// commitHistoryQuery pages over branches; each branch contributes its first
// 100 commits by the author.
type commitHistoryQuery struct {
	Repository *struct {
		Refs *struct {
			Nodes []struct {
				Name   graphql.String
				Target struct {
					Commit struct {
						History struct {
							Nodes []commitNode
						} `graphql:"history(author: {emails: [$author]}, first: 100)"`
					} `graphql:"... on Commit"`
				}
			}
			PageInfo pageInfo
		} `graphql:"refs(refPrefix: \"refs/heads/\", first: 50, after: $cursor)"`
	} `graphql:"repository(owner: $owner, name: $repo)"`
}

func extractCommits(q *commitHistoryQuery) (Page[Commit], error) {
	if q.Repository == nil || q.Repository.Refs == nil {
		return Page[Commit]{}, fmt.Errorf("%w: repository.refs missing", velocityerrors.ErrMalformedResponse)
	}
	refs := q.Repository.Refs
	var commits []Commit
	for _, ref := range refs.Nodes {
		for _, n := range ref.Target.Commit.History.Nodes {
			commits = append(commits, n.toCommit())
		}
	}
	return Page[Commit]{
		Nodes:       commits,
		HasNextPage: bool(refs.PageInfo.HasNextPage),
		EndCursor:   string(refs.PageInfo.EndCursor),
	}, nil
}

type timelineNode struct {
	Typename             graphql.String `graphql:"__typename"`
	ReviewRequestedEvent struct {
		CreatedAt time.Time
	} `graphql:"... on ReviewRequestedEvent"`
	PullRequestReview struct {
		CreatedAt time.Time
		State     graphql.String
	} `graphql:"... on PullRequestReview"`
}

func (n timelineNode) toEvent() (TimelineEvent, bool) {
	switch EventKind(n.Typename) {
	case EventReviewRequested:
		return TimelineEvent{
			Kind:      EventReviewRequested,
			CreatedAt: n.ReviewRequestedEvent.CreatedAt.UTC(),
		}, true
	case EventPullRequestReview:
		return TimelineEvent{
			Kind:      EventPullRequestReview,
			CreatedAt: n.PullRequestReview.CreatedAt.UTC(),
			State:     ReviewState(n.PullRequestReview.State),
		}, true
	default:
		return TimelineEvent{}, false
	}
}

type pullRequestNode struct {
	Title     graphql.String
	CreatedAt time.Time
	MergedAt  *time.Time
	Author    *struct {
		Login graphql.String
	}
	Commits struct {
		Nodes []struct {
			Commit commitNode
		}
	} `graphql:"commits(first: 100)"`
	TimelineItems struct {
		Nodes []timelineNode
	} `graphql:"timelineItems(last: 100, itemTypes: [REVIEW_REQUESTED_EVENT, PULL_REQUEST_REVIEW])"`
}

func (n pullRequestNode) authorLogin() string {
	if n.Author == nil {
		return ""
	}
	return string(n.Author.Login)
}

func (n pullRequestNode) toPullRequest() PullRequest {
	pr := PullRequest{
		Title:       string(n.Title),
		AuthorLogin: n.authorLogin(),
		CreatedAt:   n.CreatedAt.UTC(),
		Commits:     make([]Commit, 0, len(n.Commits.Nodes)),
		Timeline:    make([]TimelineEvent, 0, len(n.TimelineItems.Nodes)),
	}
	if n.MergedAt != nil {
		merged := n.MergedAt.UTC()
		pr.MergedAt = &merged
	}
	for _, c := range n.Commits.Nodes {
		pr.Commits = append(pr.Commits, c.Commit.toCommit())
	}
	for _, item := range n.TimelineItems.Nodes {
		if ev, ok := item.toEvent(); ok {
			pr.Timeline = append(pr.Timeline, ev)
		}
	}
	return pr
}

type pullRequestQuery struct {
	Repository *struct {
		PullRequests *struct {
			Nodes    []pullRequestNode
			PageInfo pageInfo
		} `graphql:"pullRequests(first: 100, after: $cursor, states: [MERGED])"`
	} `graphql:"repository(owner: $owner, name: $repo)"`
}

// extractPullRequests keeps only pull requests whose author login equals login.
// GitHub logins are case-insensitive.
func extractPullRequests(login string) func(*pullRequestQuery) (Page[PullRequest], error) {
	return func(q *pullRequestQuery) (Page[PullRequest], error) {
		if q.Repository == nil || q.Repository.PullRequests == nil {
			return Page[PullRequest]{}, fmt.Errorf("%w: repository.pullRequests missing", velocityerrors.ErrMalformedResponse)
		}
		conn := q.Repository.PullRequests
		var prs []PullRequest
		for _, n := range conn.Nodes {
			if !strings.EqualFold(n.authorLogin(), login) {
				continue
			}
			prs = append(prs, n.toPullRequest())
		}
		return Page[PullRequest]{
			Nodes:       prs,
			HasNextPage: bool(conn.PageInfo.HasNextPage),
			EndCursor:   string(conn.PageInfo.EndCursor),
		}, nil
	}
}

type deploymentQuery struct {
	Repository *struct {
		Deployments *struct {
			Nodes []struct {
				ID        graphql.String `graphql:"id"`
				CreatedAt time.Time
				State     graphql.String
				CommitOID graphql.String `graphql:"commitOid"`
			}
			PageInfo pageInfo
		} `graphql:"deployments(first: 100, after: $cursor, environments: [$environment], orderBy: {field: CREATED_AT, direction: ASC})"`
	} `graphql:"repository(owner: $owner, name: $repo)"`
}

func extractDeployments(q *deploymentQuery) (Page[Deployment], error) {
	if q.Repository == nil || q.Repository.Deployments == nil {
		return Page[Deployment]{}, fmt.Errorf("%w: repository.deployments missing", velocityerrors.ErrMalformedResponse)
	}
	conn := q.Repository.Deployments
	deployments := make([]Deployment, 0, len(conn.Nodes))
	for _, n := range conn.Nodes {
		deployments = append(deployments, Deployment{
			ID:        string(n.ID),
			CreatedAt: n.CreatedAt.UTC(),
			State:     string(n.State),
			CommitOID: string(n.CommitOID),
		})
	}
	return Page[Deployment]{
		Nodes:       deployments,
		HasNextPage: bool(conn.PageInfo.HasNextPage),
		EndCursor:   string(conn.PageInfo.EndCursor),
	}, nil
}
