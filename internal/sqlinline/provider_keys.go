package sqlinline

// QSelectProviderKey reads the answer provider key stored by cmd/providerkey.
const QSelectProviderKey = `--sql ce68da6c-8f98-4f22-9913-b457010d8e01
select token
from integration_tokens
where provider = $1::text;
`

// QUpsertProviderKey stores or rotates the key for one provider.
const QUpsertProviderKey = `--sql 3b520943-39c5-4cc1-92e0-5b101cbc5bdf
insert into integration_tokens (provider, token, properties)
values ($1::text, $2::text, coalesce($3::jsonb, '{}'::jsonb))
on conflict (provider) do update set
    token = excluded.token,
    properties = excluded.properties,
    updated_at = now();
`
