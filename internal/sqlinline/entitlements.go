package sqlinline

const QSelectActiveEntitlement = `--sql f797cb67-3ed7-4e8c-adf2-e0decb0e3cbe
select id, identifier, subscription_type, is_active, start_date, end_date,
       features_enabled, coalesce(activated_by, ''), last_activated, coalesce(notes, ''),
       created_at, updated_at
from subscriptions
where identifier = $1::text
  and is_active
limit 1;
`

const QCountEntitlements = `--sql bdca9ba7-7bd1-4d4b-a598-a3b2a8acf86e
select count(*)
from subscriptions
where identifier = $1::text;
`

const QInsertEntitlement = `--sql 28c2e144-f65b-4466-9be4-69b51e50e6df
insert into subscriptions (identifier, subscription_type, is_active, start_date, end_date,
                           features_enabled, activated_by, notes, created_at, updated_at)
values ($1::text, $2::text, $3::boolean, $4::timestamptz, $5::timestamptz,
        coalesce($6::jsonb, '{}'::jsonb), nullif($7::text, ''), nullif($8::text, ''), now(), now())
on conflict (identifier) do nothing
returning id, created_at, updated_at;
`

const QUpsertEntitlement = `--sql 74e195fa-d321-4e05-b3b7-ab62512ccecf
insert into subscriptions (identifier, subscription_type, is_active, start_date, end_date,
                           features_enabled, activated_by, last_activated, notes, created_at, updated_at)
values ($1::text, $2::text, $3::boolean, $4::timestamptz, $5::timestamptz,
        coalesce($6::jsonb, '{}'::jsonb), nullif($7::text, ''), $8::timestamptz, nullif($9::text, ''), now(), now())
on conflict (identifier) do update set
    subscription_type = excluded.subscription_type,
    is_active = excluded.is_active,
    start_date = excluded.start_date,
    end_date = excluded.end_date,
    features_enabled = excluded.features_enabled,
    activated_by = excluded.activated_by,
    last_activated = excluded.last_activated,
    notes = excluded.notes,
    updated_at = now()
returning id, created_at, updated_at;
`

const QDeactivateEntitlement = `--sql 675e601e-ebb4-4ee0-ab92-42972ddc447b
update subscriptions
set is_active = false,
    updated_at = $2::timestamptz
where id = $1::uuid;
`

const QDeactivateExpiredEntitlements = `--sql badc7925-2cf7-4bf0-8264-188a348e93ca
update subscriptions
set is_active = false,
    updated_at = $1::timestamptz
where is_active
  and end_date < $1::timestamptz;
`

const QInsertActivation = `--sql 4a1526e4-25bf-4ada-b721-568a6a78fae1
insert into subscription_activations (identifier, subscription_id, activated_features, activated_by, notes, activation_date)
values ($1::text, nullif($2::text, '')::uuid, coalesce($3::jsonb, '{}'::jsonb), nullif($4::text, ''), nullif($5::text, ''), $6::timestamptz)
returning id;
`

const QListFeatures = `--sql cf8cb7a7-5179-411e-99b4-a3554f2cd860
select feature_key, feature_name_ar, coalesce(feature_description_ar, ''), is_premium, created_at
from subscription_features
order by created_at, feature_key;
`
