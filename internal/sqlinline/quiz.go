package sqlinline

const QSelectQuizQuestionForDate = `--sql fa036607-ca2c-42f2-9a93-c6a3c008f4a2
select id, to_char(date, 'YYYY-MM-DD'), question, options, correct_answer, explanation, source
from daily_quiz_questions
where date = $1::date
limit 1;
`

const QSelectQuizAnswer = `--sql 5c067c6b-7869-40d3-b1b0-5e3e43d60a81
select id, identifier, question_id, selected_answer, is_correct, to_char(date, 'YYYY-MM-DD'), created_at
from daily_quiz_answers
where identifier = $1::text
  and date = $2::date
limit 1;
`

const QInsertQuizAnswer = `--sql a285d1a0-63f8-4208-a8a9-2f72013c65dd
insert into daily_quiz_answers (identifier, question_id, selected_answer, is_correct, date, created_at)
values ($1::text, $2::text, $3::int, $4::boolean, $5::date, now())
on conflict (identifier, date) do nothing
returning id, created_at;
`
