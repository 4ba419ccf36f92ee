package sqlinline

const QInsertQuestion = `--sql c1c651e4-fcae-47d6-9248-dd63e541b6fe
insert into questions (identifier, question, answer, source, response_style, created_at)
values (nullif($1::text, ''), $2::text, $3::text, nullif($4::text, ''), nullif($5::text, ''), $6::timestamptz)
returning id;
`

const QSelectQuestion = `--sql b8865b5f-2079-48a2-8b95-5c164884e132
select id, coalesce(identifier, ''), question, answer, coalesce(source, ''), coalesce(response_style, ''),
       helpful_count, report_count, created_at
from questions
where id = $1::uuid
limit 1;
`

const QListQuestionsByIdentifier = `--sql 7337ad1d-005d-4c98-b8f6-fd4a8812ed2d
select id, coalesce(identifier, ''), question, answer, coalesce(source, ''), coalesce(response_style, ''),
       helpful_count, report_count, created_at
from questions
where identifier = $1::text
order by created_at desc
limit $2::int;
`

const QListRecentQuestions = `--sql c002af0b-be7f-400c-8940-27d9130bd995
select id, coalesce(identifier, ''), question, answer, coalesce(source, ''), coalesce(response_style, ''),
       helpful_count, report_count, created_at
from questions
order by created_at desc
limit $1::int;
`

const QCountQuestions = `--sql d9162a0b-db27-4d2f-8330-3b4ef274e88a
select count(*) from questions;
`

const QDeleteQuestion = `--sql 2744eeb2-c83f-4e29-9124-073f65209844
delete from questions where id = $1::uuid;
`

const QIncrementQuestionHelpful = `--sql af4aa544-d3d3-4cc3-a9b5-ba4efacf32ab
update questions set helpful_count = helpful_count + 1 where id = $1::uuid;
`

const QIncrementQuestionReport = `--sql baee38c6-eedd-42ce-9742-169cb418aaeb
update questions set report_count = report_count + 1 where id = $1::uuid;
`
