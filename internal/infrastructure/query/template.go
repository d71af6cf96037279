// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package query

const aggregationQuerySource = `{
  "size": 0,
  "track_total_hits": true
  {{- if .Aggregations }},
  "aggs": {
    {{- range $i, $agg := .Aggregations }}
    {{- if $i }},{{ end }}
    {{ $agg.ID | json }}: {{ $agg.Body | json }}
    {{- end }}
  }
  {{- end }}
}`
