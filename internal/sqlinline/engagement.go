package sqlinline

const QInsertFeedback = `--sql d87c5106-1e30-44b7-961e-59f6d844da9e
insert into answer_feedback (question_id, identifier, is_helpful, comment, answer_text, created_at)
values (nullif($1::text, '')::uuid, $2::text, $3::boolean, nullif($4::text, ''), nullif($5::text, ''), now())
returning id, created_at;
`

const QInsertFavorite = `--sql 4509432a-8f87-4a21-b464-ca2a77b95e32
insert into favorites (identifier, question_id, created_at)
values ($1::text, $2::uuid, now())
on conflict (identifier, question_id) do update set identifier = excluded.identifier
returning id, created_at;
`

const QListFavorites = `--sql 93b04348-0217-452c-8aaf-86e9ade611ec
select f.id, f.identifier, f.question_id, f.created_at,
       q.question, q.answer, coalesce(q.source, ''), coalesce(q.response_style, ''), q.created_at
from favorites f
join questions q on q.id = f.question_id
where f.identifier = $1::text
order by f.created_at desc;
`

const QDeleteFavorite = `--sql 1712d590-ffa8-4f5b-beaf-5d536617a1dd
delete from favorites
where identifier = $1::text
  and question_id = $2::uuid;
`

const QCountFavorites = `--sql 623f2f36-92df-44ca-aa8e-927309d37e3f
select count(*) from favorites;
`
