package help

const ColdstartYAML = `# ratingstats Quick Start

what_it_does: |
  Computes the mean and standard deviation of a numeric rating field
  across a tree of JSON documents, one rating per document.

commands:
  basic_run: |
    ratingstats run ./imdb-user-reviews

  custom_field: |
    ratingstats run --field userRating ./reviews

  bounded_workers: |
    ratingstats run --workers 4 ./reviews

  tolerate_bad_documents: |
    ratingstats run --skip-bad ./reviews

  config_profile: |
    ratingstats run --config profile.yaml

  list_runs: |
    ratingstats db runs

  run_details: |
    ratingstats db run 5

profile_format: |
  root: ./imdb-user-reviews
  field: movieIMDbRating
  workers: 8
  skip_bad: true

output: |
  Stdout carries only the result tuple, e.g. "(5, 2)".
  Diagnostics and progress are JSON log lines on stderr.

exit_codes:
  0: "success, tuple printed"
  1: "extraction or aggregation failed (bad/empty input)"
  2: "setup failed (config, root, database)"

run_history:
  - "Runs recorded in ratingstats.db (SQLite) next to the binary"
  - "Per-document failures stored with read/parse/field classification"
  - "Pass --no-db to skip recording"
`
