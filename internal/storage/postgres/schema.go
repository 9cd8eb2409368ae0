package postgres

const schema = `
create table if not exists score_records (
	day         date        not null,
	game        text        not null,
	player      text        not null,
	game_number integer     not null,
	value       integer     not null,
	metric      text        not null,
	ceo_percent integer,
	posted_at   timestamptz not null,
	primary key (day, game, player)
);

create index if not exists score_records_posted_at_idx on score_records (posted_at);

create table if not exists imports (
	id                text        primary key,
	source            text        not null,
	lines_scanned     integer     not null,
	records_extracted integer     not null,
	records_stored    integer     not null,
	created_at        timestamptz not null
);
`

const insertRecordSQL = `
insert into score_records (day, game, player, game_number, value, metric, ceo_percent, posted_at)
values ($1, $2, $3, $4, $5, $6, $7, $8)
on conflict (day, game, player) do update set
	game_number = excluded.game_number,
	value = excluded.value,
	metric = excluded.metric,
	ceo_percent = excluded.ceo_percent,
	posted_at = excluded.posted_at
where excluded.posted_at < score_records.posted_at`

const selectRecordsSQL = `
select day, game, player, game_number, value, metric, ceo_percent, posted_at
from score_records
where ($1::date is null or day = $1::date)
  and ($2::text is null or game = $2::text)`

const selectDaysSQL = `select distinct day from score_records order by day desc`

const insertImportSQL = `
insert into imports (id, source, lines_scanned, records_extracted, records_stored, created_at)
values ($1, $2, $3, $4, $5, $6)
on conflict (id) do update set
	source = excluded.source,
	lines_scanned = excluded.lines_scanned,
	records_extracted = excluded.records_extracted,
	records_stored = excluded.records_stored,
	created_at = excluded.created_at`

const selectImportSQL = `
select id, source, lines_scanned, records_extracted, records_stored, created_at
from imports
where id = $1`

const selectImportsSQL = `
select id, source, lines_scanned, records_extracted, records_stored, created_at
from imports
order by created_at desc, id
limit $1`
