package sqlinline

const QIncrementDailyStats = `--sql d3ddc6a2-0844-4ee7-8692-50f9b4d48349
insert into stats (date, total_questions, daily_users, created_at)
values ($1::date, 1, $2::int, now())
on conflict (date) do update set
    total_questions = stats.total_questions + 1,
    daily_users = stats.daily_users + excluded.daily_users;
`

const QMarkDailyUserSeen = `--sql 7bbb31c7-9e57-49f4-a652-c11f6186d36c
insert into stats_daily_users (date, identifier)
values ($1::date, $2::text)
on conflict do nothing;
`

const QLatestDailyStats = `--sql a0110036-8983-47df-ba44-eac245bf372f
select to_char(date, 'YYYY-MM-DD'), total_questions, daily_users, created_at
from stats
order by date desc
limit $1::int;
`
