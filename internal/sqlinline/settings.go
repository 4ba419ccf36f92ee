package sqlinline

const QSelectSetting = `--sql 7292b1bf-f04f-446d-98a6-9f764bffa19e
select setting_key, setting_value, updated_at
from app_settings
where setting_key = $1::text
limit 1;
`

const QUpsertSetting = `--sql e67d8ca8-7c59-4816-8c47-12615e761acb
insert into app_settings (setting_key, setting_value, updated_at)
values ($1::text, $2::text, now())
on conflict (setting_key) do update set
    setting_value = excluded.setting_value,
    updated_at = now();
`
